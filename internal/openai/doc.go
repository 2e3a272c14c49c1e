// Package openai turns free-text WhatsApp messages into structured intents
// using the OpenAI chat-completions API.
//
// Two operations are exposed:
//   - ClassifyIntent: a single-word classification (meet, calendar, upload)
//     run at temperature zero
//   - ExtractEventDetails: labelled-line extraction of event fields (title,
//     date, time, location, notes), parsed with anchored regexes
//
// The model replies in a fixed "Label: value" format; anything the model
// marks "Not provided" is normalized to the zero value. A missing time means
// the event is all-day.
package openai
