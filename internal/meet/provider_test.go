package meet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCreator struct {
	link string
	err  error
	used bool
}

func (f *fakeCreator) CreateMeetConference(_ context.Context, _ string) (string, error) {
	f.used = true
	return f.link, f.err
}

func writeLinksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meet_links.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLinkFromPool(t *testing.T) {
	path := writeLinksFile(t, "https://meet.google.com/aaa-bbbb-ccc\nhttps://meet.google.com/ddd-eeee-fff\n")
	creator := &fakeCreator{link: "https://meet.google.com/zzz-zzzz-zzz"}
	p := NewProvider(path, creator)

	link, err := p.Link(context.Background())
	require.NoError(t, err)
	assert.Contains(t, []string{
		"https://meet.google.com/aaa-bbbb-ccc",
		"https://meet.google.com/ddd-eeee-fff",
	}, link)
	assert.False(t, creator.used, "pool hit should not call the fallback")
}

func TestLinkSkipsBlankLines(t *testing.T) {
	path := writeLinksFile(t, "\n\n  https://meet.google.com/aaa-bbbb-ccc  \n\n")
	p := NewProvider(path, nil)

	link, err := p.Link(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/aaa-bbbb-ccc", link)
}

func TestLinkFallsBackWhenFileMissing(t *testing.T) {
	creator := &fakeCreator{link: "https://meet.google.com/gen-erat-edd"}
	p := NewProvider(filepath.Join(t.TempDir(), "absent.txt"), creator)

	link, err := p.Link(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/gen-erat-edd", link)
	assert.True(t, creator.used)
}

func TestLinkFallsBackWhenPoolEmpty(t *testing.T) {
	path := writeLinksFile(t, "   \n\n")
	creator := &fakeCreator{link: "https://meet.google.com/gen-erat-edd"}
	p := NewProvider(path, creator)

	link, err := p.Link(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/gen-erat-edd", link)
}

func TestLinkErrorWithoutFallback(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "absent.txt"), nil)

	_, err := p.Link(context.Background())
	require.Error(t, err)

	var meetErr *MeetError
	require.True(t, errors.As(err, &meetErr))
	assert.Equal(t, "pool", meetErr.Op)
}

func TestLinkFallbackFailure(t *testing.T) {
	creator := &fakeCreator{err: errors.New("quota exceeded")}
	p := NewProvider(filepath.Join(t.TempDir(), "absent.txt"), creator)

	_, err := p.Link(context.Background())
	require.Error(t, err)

	var meetErr *MeetError
	require.True(t, errors.As(err, &meetErr))
	assert.Equal(t, "generate", meetErr.Op)
}
