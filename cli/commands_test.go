package cli

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/ledgertext/beancount/parser"
	"github.com/ledgertext/beancount/render"

	"golang.org/x/term"
)

// getBinaryName returns the platform-specific binary name for tests
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "beancount-test.exe"
	}
	return "beancount-test"
}

// cleanupBinary removes the test binary in a cross-platform way
func cleanupBinary(name string) {
	_ = os.Remove(name)
}

func TestFormatCmd(t *testing.T) {
	t.Run("BasicFormatting", func(t *testing.T) {
		source := `
option "title" "Test"

2021-01-01 open Assets:Checking

2021-01-02 * "Test transaction"
  Assets:Checking  -100.00 USD
  Expenses:Food  100.00 USD
`
		ledger, err := parser.ParseBytes(context.Background(), []byte(source))
		assert.NoError(t, err)

		output, err := render.String(ledger)
		assert.NoError(t, err)

		assert.True(t, strings.Contains(output, `option "title" "Test"`))
		assert.True(t, strings.Contains(output, "2021-01-01 open Assets:Checking"))
		assert.True(t, strings.Contains(output, "Assets:Checking"))
		assert.True(t, strings.Contains(output, "100 USD"))
	})

	t.Run("EmptyFile", func(t *testing.T) {
		source := ``
		ledger, err := parser.ParseBytes(context.Background(), []byte(source))
		assert.NoError(t, err)

		output, err := render.String(ledger)
		assert.NoError(t, err)
		assert.Equal(t, "", output)
	})
}

// TestFormatCmdIntegration tests rendering of a complete ledger.
func TestFormatCmdIntegration(t *testing.T) {
	t.Run("CompleteFile", func(t *testing.T) {
		source := `
option "title" "Integration Test"

2021-01-01 commodity USD

2021-01-01 open Assets:Checking  USD

2021-01-02 * "Opening balance"
  Assets:Checking  1000.00 USD
  Equity:Opening-Balances  -1000.00 USD

2021-01-03 balance Assets:Checking  1000.00 USD
`
		ledger, err := parser.ParseBytes(context.Background(), []byte(source))
		assert.NoError(t, err)

		output, err := render.String(ledger)
		assert.NoError(t, err)

		assert.True(t, strings.Contains(output, "option"))
		assert.True(t, strings.Contains(output, "commodity"))
		assert.True(t, strings.Contains(output, "open"))
		assert.True(t, strings.Contains(output, "balance"))
		assert.True(t, strings.Contains(output, "1000 USD"))
	})
}

// TestStdinIntegration tests the full stdin functionality by running the compiled binary
func TestStdinIntegration(t *testing.T) {
	t.Run("CheckStdinSuccess", func(t *testing.T) {
		binaryName := getBinaryName()
		cmd := exec.Command("go", "build", "-o", binaryName, "../cmd/beancount")
		err := cmd.Run()
		assert.NoError(t, err)
		defer cleanupBinary(binaryName)

		checkCmd := exec.Command("./"+binaryName, "check", "-")
		checkCmd.Stdin = strings.NewReader("2024-01-01 open Assets:Checking USD")
		output, err := checkCmd.CombinedOutput()
		assert.NoError(t, err)
		assert.Contains(t, string(output), "✓ Check passed")
	})

	t.Run("CheckStdinDefault", func(t *testing.T) {
		binaryName := getBinaryName()
		cmd := exec.Command("go", "build", "-o", binaryName, "../cmd/beancount")
		err := cmd.Run()
		assert.NoError(t, err)
		defer cleanupBinary(binaryName)

		checkCmd := exec.Command("./"+binaryName, "check")
		checkCmd.Stdin = strings.NewReader("2024-01-01 open Assets:Checking USD")
		output, err := checkCmd.CombinedOutput()
		assert.NoError(t, err)
		assert.Contains(t, string(output), "✓ Check passed")
	})

	t.Run("FormatStdin", func(t *testing.T) {
		binaryName := getBinaryName()
		cmd := exec.Command("go", "build", "-o", binaryName, "../cmd/beancount")
		err := cmd.Run()
		assert.NoError(t, err)
		defer cleanupBinary(binaryName)

		formatCmd := exec.Command("./"+binaryName, "format", "-")
		formatCmd.Stdin = strings.NewReader("2024-01-01 open Assets:Checking USD")
		output, err := formatCmd.Output()
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-01 open Assets:Checking USD\n", string(output))
	})

	t.Run("FormatStdinDefault", func(t *testing.T) {
		binaryName := getBinaryName()
		cmd := exec.Command("go", "build", "-o", binaryName, "../cmd/beancount")
		err := cmd.Run()
		assert.NoError(t, err)
		defer cleanupBinary(binaryName)

		formatCmd := exec.Command("./"+binaryName, "format")
		formatCmd.Stdin = strings.NewReader("2024-01-01 open Assets:Checking USD")
		output, err := formatCmd.Output()
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-01 open Assets:Checking USD\n", string(output))
	})

	t.Run("CheckStdinError", func(t *testing.T) {
		binaryName := getBinaryName()
		cmd := exec.Command("go", "build", "-o", binaryName, "../cmd/beancount")
		assert.NoError(t, cmd.Run())
		defer cleanupBinary(binaryName)

		checkCmd := exec.Command("./"+binaryName, "check", "-")
		checkCmd.Stdin = strings.NewReader("2024-01-01 invalid directive")
		output, err := checkCmd.CombinedOutput()
		assert.Error(t, err)
		assert.Contains(t, string(output), "<stdin>:")
		assert.Contains(t, string(output), "parse error")
	})
}

// TestPromptYesNo documents the non-TTY behavior of promptYesNo.
func TestPromptYesNo(t *testing.T) {
	t.Run("NonTTYReturnsFalse", func(t *testing.T) {
		// promptYesNo short-circuits to false without blocking when stdin
		// is not a terminal, which is always true under `go test`.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			got, err := promptYesNo(nil, "Overwrite?")
			assert.NoError(t, err)
			assert.False(t, got)
		}
	})
}
