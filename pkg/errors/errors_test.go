package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStarportErrorString(t *testing.T) {
	err := &StarportError{
		Op:   "starport.Registry.Register",
		Kind: KindUsage,
		Err:  stderrors.New("boom"),
	}
	want := "starport.Registry.Register [usage]: boom"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStarportErrorWithPort(t *testing.T) {
	err := &StarportError{
		Op:   "starport.Registry.Update",
		Kind: KindRender,
		Port: "player",
		Err:  stderrors.New("boom"),
	}
	if got := err.Error(); !strings.Contains(got, "port=player") {
		t.Errorf("error string %q should contain port", got)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindUsage, "usage"},
		{KindConfig, "config"},
		{KindRender, "render"},
		{KindPanic, "panic"},
		{KindBuild, "build"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Op: "engine.Frame", Value: "test panic", Timestamp: time.Now()}
	want := "panic in engine.Frame: test panic"
	if got := err.Error(); got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}

	bare := &PanicError{Value: "test panic"}
	if got := bare.Error(); got != "panic: test panic" {
		t.Errorf("PanicError.Error() = %q, want %q", got, "panic: test panic")
	}
}

func TestBuildErrorString(t *testing.T) {
	err := &BuildError{Widget: "starport.Starport", Recovered: "nil pointer dereference"}
	want := "panic in starport.Starport.Build(): nil pointer dereference"
	if got := err.Error(); got != want {
		t.Errorf("BuildError.Error() = %q, want %q", got, want)
	}

	unknown := &BuildError{Widget: "starport.Starport"}
	if got := unknown.Error(); got != "unknown error in starport.Starport.Build()" {
		t.Errorf("BuildError.Error() = %q", got)
	}
}

func TestBuildErrorUnwrapsUsageError(t *testing.T) {
	cause := &MissingCarrierError{Port: "player"}
	err := &BuildError{Widget: "starport.Starport", Recovered: cause, Err: cause}

	var missing *MissingCarrierError
	if !stderrors.As(err, &missing) {
		t.Fatal("expected errors.As to find MissingCarrierError")
	}
	if missing.Port != "player" {
		t.Errorf("Port = %q, want %q", missing.Port, "player")
	}
	if !stderrors.Is(err, ErrUsage) {
		t.Error("expected build error to match ErrUsage")
	}
}

func TestUsageErrorsMatchErrUsage(t *testing.T) {
	usage := []error{
		&MissingCarrierError{Port: "a"},
		&MissingSlotError{Port: "a"},
		&SlotArityError{Port: "a", Got: 2},
		&InvalidSlotContentError{Port: "a", Type: "widgets.Text"},
		&InvalidPortError{Port: "", Reason: "empty"},
	}
	for _, err := range usage {
		if !stderrors.Is(err, ErrUsage) {
			t.Errorf("%T does not match ErrUsage", err)
		}
		if err.Error() == "" {
			t.Errorf("%T has empty message", err)
		}
	}
}

func TestReport(t *testing.T) {
	var captured *StarportError
	handler := &testHandler{onError: func(err *StarportError) { captured = err }}
	SetHandler(handler)
	defer SetHandler(nil)

	Report(&StarportError{Op: "test.op", Kind: KindConfig, Err: stderrors.New("bad")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportBuildError(t *testing.T) {
	var captured *BuildError
	handler := &testHandler{onBuildError: func(err *BuildError) { captured = err }}
	SetHandler(handler)
	defer SetHandler(nil)

	ReportBuildError(&BuildError{Widget: "widgets.Text", Recovered: "test panic"})

	if captured == nil {
		t.Fatal("expected build error to be captured")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	handler := &testHandler{onPanic: func(err *PanicError) { captured = err }}
	SetHandler(handler)
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.StackTrace == "" {
		t.Error("expected stack trace")
	}
}

func TestSetHandlerNil(t *testing.T) {
	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerWritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := &LogHandler{Logger: &logger}

	handler.HandleError(&StarportError{Op: "starport.Registry.Register", Port: "player", Err: stderrors.New("bad port")})
	handler.HandleBuildError(&BuildError{Widget: "starport.Starport", Element: "*core.StatelessElement", Recovered: "x"})

	out := buf.String()
	for _, want := range []string{`"op":"starport.Registry.Register"`, `"port":"player"`, `"widget":"starport.Starport"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

type testHandler struct {
	onError      func(*StarportError)
	onPanic      func(*PanicError)
	onBuildError func(*BuildError)
}

func (h *testHandler) HandleError(err *StarportError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleBuildError(err *BuildError) {
	if h.onBuildError != nil {
		h.onBuildError(err)
	}
}
