package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCleanList = map[string][]string{
	"AWS":    {"aws", "Amazon Web Services", "AWS"},
	"Python": {"python", "Python"},
	"Go":     {"Go", "golang", "Golang"},
}

func newTestTagger(t *testing.T) *Tagger {
	t.Helper()
	return NewTagger(
		[]string{"Python", "Amazon Web Services", "Golang", "Spark"},
		[]string{"Go", "R", "AWS"},
		testCleanList,
		nil,
	)
}

func TestTagger_Extract(t *testing.T) {
	tagger := newTestTagger(t)

	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "long name plain substring",
			description: "We are hiring a Python developer",
			want:        []string{"Python"},
		},
		{
			name:        "long name split by whitespace noise",
			description: "Experience with Amazon  Web\nServices required",
			want:        []string{"AWS"},
		},
		{
			name:        "short name as standalone token",
			description: "Backend services written in Go and deployed on AWS",
			want:        []string{"AWS", "Go"},
		},
		{
			name:        "short name inside longer word is not matched",
			description: "Golang expert wanted",
			want:        []string{"Go"}, // via the long name "Golang", not the short "Go"
		},
		{
			name:        "short R not matched inside words",
			description: "Ruby and React developers welcome",
			want:        nil,
		},
		{
			name:        "short name at start and end of text",
			description: "R is required",
			want:        []string{"R"},
		},
		{
			name:        "aliases collapse to one canonical name",
			description: "Stack: AWS plus Amazon Web Services experience",
			want:        []string{"AWS"},
		},
		{
			name:        "no technology at all",
			description: "General office assistant position",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagger.Extract(tt.description))
		})
	}
}

func TestTagger_ShortNameNoFalsePositiveInLongerWord(t *testing.T) {
	// "Go" alone must not fire on "Golang expert"; drop the long list to
	// isolate the short-name path.
	tagger := NewTagger(nil, []string{"Go"}, nil, nil)

	assert.Nil(t, tagger.Extract("Golang expert"))
	assert.Equal(t, []string{"Go"}, tagger.Extract("Golang expert who also writes Go daily"))
}

func TestTagger_CanonicalizeJoined(t *testing.T) {
	tagger := newTestTagger(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "alias round trip collapses to a single canonical name",
			in:   "aws, Amazon Web Services, AWS",
			want: "AWS",
		},
		{
			name: "mixed known and unknown names",
			in:   "golang, python, Kafka",
			want: "Go, Kafka, Python",
		},
		{
			name: "empty stays empty",
			in:   "",
			want: "",
		},
		{
			name: "idempotent on already canonical value",
			in:   "AWS, Go",
			want: "AWS, Go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tagger.CanonicalizeJoined(tt.in))
		})
	}
}

func TestTagger_SpecialCharactersEscaped(t *testing.T) {
	tagger := NewTagger(nil, []string{"C++", "C#"}, nil, nil)

	assert.Equal(t, []string{"C++"}, tagger.Extract("Senior C++ engineer"))
	assert.Equal(t, []string{"C#"}, tagger.Extract("We use C# heavily"))
	assert.Nil(t, tagger.Extract("CSS wizard"))
}

func TestDecodeNameList(t *testing.T) {
	names, err := DecodeNameList("[\"Python\",\n \"Spark\", \"\"]")
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Spark"}, names)

	_, err = DecodeNameList("not json")
	assert.Error(t, err)
}

func TestDecodeAliasMap(t *testing.T) {
	aliases, err := DecodeAliasMap("{\"AWS\": [\"aws\",\n\"Amazon Web Services\"]}")
	require.NoError(t, err)
	require.Contains(t, aliases, "AWS")
	assert.Equal(t, []string{"aws", "Amazon Web Services"}, aliases["AWS"])

	_, err = DecodeAliasMap("[]")
	assert.Error(t, err)
}
