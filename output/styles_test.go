package output

import (
	"strings"
	"testing"
)

func TestNewStyles(t *testing.T) {
	styles := NewStyles()

	if styles == nil {
		t.Fatal("NewStyles should return non-nil Styles")
	}
}

func TestStylesSuccess(t *testing.T) {
	styles := NewStyles()

	result := styles.Success("test message")

	if !strings.Contains(result, "test") {
		t.Errorf("Success() result should contain message, got: %s", result)
	}
}

func TestStylesError(t *testing.T) {
	styles := NewStyles()

	result := styles.Error("error message")

	if !strings.Contains(result, "error") {
		t.Errorf("Error() result should contain message, got: %s", result)
	}
}

func TestStylesFilePath(t *testing.T) {
	styles := NewStyles()

	result := styles.FilePath("/path/to/file.txt")

	if !strings.Contains(result, "/path/to/file.txt") {
		t.Errorf("FilePath() result should contain path, got: %s", result)
	}
}

func TestStylesAccount(t *testing.T) {
	styles := NewStyles()

	result := styles.Account("Assets:Checking")

	if !strings.Contains(result, "Assets:Checking") {
		t.Errorf("Account() result should contain account, got: %s", result)
	}
}

func TestStylesAmount(t *testing.T) {
	styles := NewStyles()

	result := styles.Amount("100.50 USD")

	if !strings.Contains(result, "100.50") {
		t.Errorf("Amount() result should contain amount, got: %s", result)
	}
}

func TestStylesKeyword(t *testing.T) {
	styles := NewStyles()

	result := styles.Keyword("balance")

	if !strings.Contains(result, "balance") {
		t.Errorf("Keyword() result should contain keyword, got: %s", result)
	}
}

func TestStylesDim(t *testing.T) {
	styles := NewStyles()

	result := styles.Dim("dimmed text")

	if !strings.Contains(result, "dimmed text") {
		t.Errorf("Dim() result should contain text, got: %s", result)
	}
}

func TestStylesWarning(t *testing.T) {
	styles := NewStyles()

	result := styles.Warning("warning message")

	if !strings.Contains(result, "warning") {
		t.Errorf("Warning() result should contain message, got: %s", result)
	}
}

func TestStylesTiming(t *testing.T) {
	styles := NewStyles()

	t.Run("FastOperation", func(t *testing.T) {
		result := styles.Timing("5ms", false)

		if !strings.Contains(result, "5ms") {
			t.Errorf("Timing() result should contain timing, got: %s", result)
		}
	})

	t.Run("SlowOperation", func(t *testing.T) {
		result := styles.Timing("500ms", true)

		if !strings.Contains(result, "500ms") {
			t.Errorf("Timing() result should contain timing, got: %s", result)
		}
	})
}
