package ojtemplate

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterHookRegister(t *testing.T) {
	var h filterHook
	assert.Error(t, h.register(nil))
	assert.Error(t, h.register([]string{""}))
	assert.Nil(t, h.command)

	args := []string{"clang-format", "--style=Google"}
	require.NoError(t, h.register(args))
	args[1] = "--style=LLVM"
	assert.Equal(t, []string{"clang-format", "--style=Google"}, h.command)
	assert.ErrorIs(t, h.register([]string{"cat"}), ErrFilterRegistered)
}

func TestExecFilter(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()
	out, err := ExecFilter(ctx, []string{"sh", "-c", "tr a-z A-Z"}, []byte("int n;\n"))
	require.NoError(t, err)
	assert.Equal(t, "INT N;\n", string(out))

	_, err = ExecFilter(ctx, []string{"sh", "-c", "echo broken >&2; exit 3"}, nil)
	assert.ErrorContains(t, err, "exit status 3")
	assert.ErrorContains(t, err, "broken")

	_, err = ExecFilter(ctx, []string{"ojtemplate-no-such-filter"}, nil)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
