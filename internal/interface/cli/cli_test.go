package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/docsum/internal/domain/auth"
	"github.com/yanqian/docsum/internal/domain/summarizer"
)

const sampleText = "The cat chased the mouse. Dogs bark at night. The cat sat. Birds sing."

func execute(t *testing.T, deps Deps, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(deps)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	out, err := execute(t, Deps{Version: "1.2.3"}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docsum version 1.2.3")
}

func TestSummarizeFromStdin(t *testing.T) {
	t.Parallel()
	out, err := execute(t, Deps{Stdin: strings.NewReader(sampleText)}, "summarize", "-n", "1")
	require.NoError(t, err)
	assert.Equal(t, "The cat chased the mouse.\n", out)

	out, err = execute(t, Deps{Stdin: strings.NewReader("   \n")}, "summarize", "-")
	require.NoError(t, err)
	assert.Equal(t, summarizer.EmptyInputSummary+"\n", out)
}

func TestSummarizeFileAsJSON(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "notes.txt", sampleText)

	out, err := execute(t, Deps{}, "summarize", path, "-n", "2", "--json", "--language", "en")
	require.NoError(t, err)

	var resp summarizer.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 2, resp.NumSentences)
	assert.Len(t, resp.Sentences, 2)
	assert.Equal(t, "The cat chased the mouse.", resp.Sentences[0])
	assert.Equal(t, "en", resp.Language)
}

func TestSummarizeCustomStopWords(t *testing.T) {
	t.Parallel()
	stop := writeFile(t, "stop.txt", "# nothing is a stop word except cat\ncat\n")
	text := "The cat sat. The dog ran far away."

	out, err := execute(t, Deps{Stdin: strings.NewReader(text)}, "summarize", "-n", "1", "--stop-words", stop)
	require.NoError(t, err)
	assert.Equal(t, "The dog ran far away.\n", out)
}

func TestSummarizeErrors(t *testing.T) {
	t.Parallel()
	_, err := execute(t, Deps{Stdin: strings.NewReader(sampleText)}, "summarize", "--sentences=-1")
	require.Error(t, err)

	_, err = execute(t, Deps{}, "summarize", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	_, err = execute(t, Deps{}, "summarize", writeFile(t, "tool.exe", "MZ"))
	require.ErrorContains(t, err, "unsupported file type")

	_, err = execute(t, Deps{Stdin: strings.NewReader(sampleText)}, "summarize", "--stop-words", "/does/not/exist")
	require.ErrorContains(t, err, "open stop words")
}

func TestExtractCommand(t *testing.T) {
	t.Parallel()
	path := writeFile(t, "page.html", `<html><head><title>T</title></head><body><p>Only paragraph here.</p></body></html>`)
	out, err := execute(t, Deps{}, "extract", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Only paragraph here.")

	_, err = execute(t, Deps{}, "extract")
	require.Error(t, err)
}

func TestTokenIssue(t *testing.T) {
	t.Parallel()
	getenv := func(key string) string {
		if key == "SECRET_KEY" {
			return "test-secret"
		}
		return ""
	}
	out, err := execute(t, Deps{Getenv: getenv}, "token", "issue", "--subject", "ci-bot", "--ttl", "1h")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	svc, err := auth.NewService(auth.Config{Secret: "test-secret", Issuer: "docsum"}, nil)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(t.Context(), token)
	require.NoError(t, err)
	assert.Equal(t, "ci-bot", claims.Subject)
}

func TestTokenIssueRequiresSecretAndSubject(t *testing.T) {
	t.Parallel()
	noEnv := func(string) string { return "" }

	_, err := execute(t, Deps{Getenv: noEnv}, "token", "issue", "--subject", "x")
	require.ErrorContains(t, err, "secret is required")

	_, err = execute(t, Deps{Getenv: noEnv}, "token", "issue", "--secret", "s")
	require.Error(t, err)
}
