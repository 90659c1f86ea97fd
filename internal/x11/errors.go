package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrorClass is the X error code family of an asynchronous protocol error.
type ErrorClass int

const (
	ErrorOther ErrorClass = iota
	ErrorBadWindow
	ErrorBadMatch
	ErrorBadAccess
	ErrorBadDrawable
)

func (e ErrorClass) String() string {
	switch e {
	case ErrorBadWindow:
		return "BadWindow"
	case ErrorBadMatch:
		return "BadMatch"
	case ErrorBadAccess:
		return "BadAccess"
	case ErrorBadDrawable:
		return "BadDrawable"
	default:
		return "other"
	}
}

// Core request opcodes referenced by the allow-list.
const (
	OpChangeWindowAttributes byte = 2
	OpConfigureWindow        byte = 12
	OpGrabButton             byte = 28
	OpGrabKey                byte = 33
	OpSetInputFocus          byte = 42
	OpCopyArea               byte = 62
	OpPolySegment            byte = 66
	OpPolyFillRectangle      byte = 70
	OpPolyText8              byte = 74
)

// Ignorable reports whether an error is an expected race with a client that
// destroyed its window while we were still addressing it.
func Ignorable(major byte, class ErrorClass) bool {
	switch class {
	case ErrorBadWindow:
		return true
	case ErrorBadMatch:
		return major == OpSetInputFocus || major == OpConfigureWindow
	case ErrorBadAccess:
		return major == OpGrabButton || major == OpGrabKey
	case ErrorBadDrawable:
		switch major {
		case OpPolyText8, OpPolyFillRectangle, OpPolySegment, OpCopyArea:
			return true
		}
	}
	return false
}

// Classify extracts the request opcode and error class of an xgb error.
func Classify(err xgb.Error) (byte, ErrorClass) {
	switch e := err.(type) {
	case xproto.WindowError:
		return e.MajorOpcode, ErrorBadWindow
	case xproto.MatchError:
		return e.MajorOpcode, ErrorBadMatch
	case xproto.AccessError:
		return e.MajorOpcode, ErrorBadAccess
	case xproto.DrawableError:
		return e.MajorOpcode, ErrorBadDrawable
	}
	return 0, ErrorOther
}

// DescribeError renders an error for the log.
func DescribeError(err xgb.Error) string {
	major, class := Classify(err)
	return fmt.Sprintf("request %d, %s: %v", major, class, err)
}
