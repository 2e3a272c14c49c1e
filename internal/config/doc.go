// Package config defines the waclerk service configuration and its loading.
//
// Configuration is layered (low -> high precedence):
//  1. built-in defaults
//  2. a YAML file, when WACLERK_CONFIG points to one
//  3. WACLERK_-prefixed environment variables, double underscore nesting
//     (WACLERK_OPENAI__API_KEY -> openai.api_key)
//  4. the service's documented plain environment names (OPENAI_API_KEY,
//     GOOGLE_CALENDAR_CREDENTIALS, GOOGLE_CALENDAR_ID, ACCESS_TOKEN, ...)
//
// A .env file in the working directory is loaded into the environment first,
// matching how the service is run in development.
package config
