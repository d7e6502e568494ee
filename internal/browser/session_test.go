package browser

import (
	"context"
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "visible", input: "visible", want: ModeVisible},
		{name: "minimized", input: "minimized", want: ModeMinimized},
		{name: "headless", input: "headless", want: ModeHeadless},
		{name: "unknown", input: "incognito", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMode(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeVisible, "visible"},
		{ModeMinimized, "minimized"},
		{ModeHeadless, "headless"},
		{Mode(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()

	t.Run("navigation error carries status", func(t *testing.T) {
		t.Parallel()

		err := &NavigationError{URL: "https://www.nrinow.news/page/2/", Status: 403}
		if msg := err.Error(); msg == "" {
			t.Fatal("NavigationError.Error() is empty")
		}
	})

	t.Run("setup error unwraps", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("chrome not found")
		err := &SetupError{Reason: "launch", Err: cause}
		if !errors.Is(err, cause) {
			t.Error("SetupError does not unwrap to its cause")
		}
	})

	t.Run("closed session rejects operations", func(t *testing.T) {
		t.Parallel()

		s := &Session{closed: true}
		if err := s.Navigate(context.Background(), "https://www.nrinow.news"); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("Navigate on closed session = %v, want ErrSessionClosed", err)
		}
		if _, err := s.HTML(context.Background()); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("HTML on closed session = %v, want ErrSessionClosed", err)
		}
		if err := s.SimulateReading(context.Background()); !errors.Is(err, ErrSessionClosed) {
			t.Errorf("SimulateReading on closed session = %v, want ErrSessionClosed", err)
		}
		if ok := s.WaitReady(context.Background(), "body", 0); ok {
			t.Error("WaitReady on closed session = true, want false")
		}
	})
}

func TestStatusOK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int64
		want   bool
	}{
		{status: 200, want: true},
		{status: 204, want: true},
		{status: 299, want: true},
		{status: 301, want: false},
		{status: 302, want: false},
		{status: 403, want: false},
		{status: 503, want: false},
		{status: 0, want: false},
	}

	for _, tt := range tests {
		if got := statusOK(tt.status); got != tt.want {
			t.Errorf("statusOK(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
