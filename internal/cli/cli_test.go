package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPolicyCUE = `supervisor: "sup"
custodian:  "vault"

balances: {
	alice: 1000
	bob:   500
}
`

// env is a CLI deployment in a temp dir: one policy file, one journal.
type env struct {
	policy  string
	journal string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.cue")
	require.NoError(t, os.WriteFile(policy, []byte(testPolicyCUE), 0o600))
	return &env{
		policy:  policy,
		journal: filepath.Join(dir, "harmony.db"),
	}
}

// run executes one CLI invocation against the environment.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--policy", e.policy, "--journal", e.journal))
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "validate", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestValidateCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "policy valid")

	require.NoError(t, os.WriteFile(e.policy, []byte(`supervisor: "x"`), 0o600))
	out, err = e.run(t, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "POLICY_INVALID")
}

func TestValidateCommand_MissingPolicy(t *testing.T) {
	e := newEnv(t)
	e.policy = filepath.Join(t.TempDir(), "nope.cue")

	_, err := e.run(t, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

// Full lifecycle across separate CLI invocations: every call rebuilds the
// registry from the journal, so state must persist between commands.
func TestLifecycleAcrossInvocations(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "create",
		"--actor", "alice", "--beneficiary", "bob",
		"--quantity", "500", "--termination", "100", "--height", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "allocation 1 [pending]")

	out, err = e.run(t, "invoke", "accept", "--id", "1", "--actor", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "[accepted]")

	// The beneficiary cannot release to itself; rejection renders the
	// registry code and exits 1.
	out, err = e.run(t, "invoke", "finalize", "--id", "1", "--actor", "bob")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "UNAUTHORIZED")

	out, err = e.run(t, "invoke", "finalize", "--id", "1", "--actor", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "[completed]")

	out, err = e.run(t, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "[completed]")
	assert.Contains(t, out, "quantity:    0")

	out, err = e.run(t, "history", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "accept")
	assert.Contains(t, out, "finalize")
}

func TestInvoke_UnknownOperation(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "invoke", "explode", "--id", "1", "--actor", "alice")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestJSONOutput(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "create", "--format", "json",
		"--actor", "alice", "--beneficiary", "bob",
		"--quantity", "200", "--termination", "50", "--height", "1")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	out, err = e.run(t, "invoke", "accept", "--format", "json", "--id", "1", "--actor", "alice")
	require.Error(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestReplayCommand(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "create",
		"--actor", "alice", "--beneficiary", "bob",
		"--quantity", "300", "--termination", "100", "--height", "5")
	require.NoError(t, err)

	out, err := e.run(t, "replay", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["last_id"])
	assert.Equal(t, float64(1), data["last_seq"])
	assert.Equal(t, float64(5), data["height"])

	balances, ok := data["balances"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(700), balances["alice"])
	assert.Equal(t, float64(300), balances["vault"])
}
