package avdtp

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned when a value on the wire is outside its defined range.
	ErrOutOfRange = errors.New("avdtp: value out of range")

	// ErrInvalidHeader is returned when a signaling header can't be parsed.
	ErrInvalidHeader = errors.New("avdtp: invalid signaling header")

	// ErrInvalidMessage is returned when the contents of a message can't be parsed.
	ErrInvalidMessage = errors.New("avdtp: invalid message contents")

	// ErrBadLength is returned when a command payload has the wrong length.
	ErrBadLength = errors.New("avdtp: command has bad length")

	// ErrUnimplementedMessage is returned for signals this package doesn't handle.
	ErrUnimplementedMessage = errors.New("avdtp: message not implemented")

	// ErrPeerDisconnected is returned once the signaling channel has closed.
	ErrPeerDisconnected = errors.New("avdtp: peer disconnected")

	// ErrAlreadyReceived is returned when a command response is collected twice.
	ErrAlreadyReceived = errors.New("avdtp: command response already received")

	// ErrEncoding is returned when a message doesn't fit the supplied buffer.
	ErrEncoding = errors.New("avdtp: can't encode message")

	// ErrGeneralReject is returned when the remote doesn't understand a command.
	ErrGeneralReject = errors.New("avdtp: remote sent general reject")

	// ErrAlreadyResponded is returned when a responder is used more than once.
	ErrAlreadyResponded = errors.New("avdtp: request already answered")

	// ErrRequestStreamClosed is returned by Next on a closed RequestStream.
	ErrRequestStreamClosed = errors.New("avdtp: request stream closed")
)

// InvalidSignalIDError is returned when a header carries an undefined signal identifier.
type InvalidSignalIDError struct {
	TxID TxID
	ID   uint8
}

func (e *InvalidSignalIDError) Error() string {
	return fmt.Sprintf("avdtp: invalid signal id for tx %d: 0x%02X", e.TxID, e.ID)
}

// RemoteRejectedError is returned when the remote answers a command with a
// Response Reject.
type RemoteRejectedError struct {
	Signal SignalIdentifier
	Code   ErrorCode

	// Detail is the first byte of a two byte reject: the service category
	// for configuration signals, or the ACP SEID field for start and suspend.
	Detail    uint8
	HasDetail bool
}

func (e *RemoteRejectedError) Error() string {
	if e.HasDetail {
		return fmt.Sprintf("avdtp: remote rejected %s (code = 0x%02X %s, detail = 0x%02X)", e.Signal, uint8(e.Code), e.Code, e.Detail)
	}
	return fmt.Sprintf("avdtp: remote rejected %s (code = 0x%02X %s)", e.Signal, uint8(e.Code), e.Code)
}

// PeerIOError reports a failure of the underlying signaling channel.
type PeerIOError struct {
	Op  string // "read" or "write"
	Err error
}

func (e *PeerIOError) Error() string {
	return fmt.Sprintf("avdtp: peer %s: %v", e.Op, e.Err)
}

// Cause returns the underlying channel error.
func (e *PeerIOError) Cause() error { return e.Err }

// Unwrap returns the underlying channel error.
func (e *PeerIOError) Unwrap() error { return e.Err }

// ErrorCode is an AVDTP error code carried in a Response Reject [AVDTP 8.20.6].
type ErrorCode byte

// Error codes.
const (
	ErrCodeBadHeaderFormat          ErrorCode = 0x01 // The request packet header format error that is not specified above ERROR_CODE.
	ErrCodeBadLength                ErrorCode = 0x11 // The request packet length is not match the assumed length.
	ErrCodeBadAcpSeid               ErrorCode = 0x12 // The requested command indicates an invalid ACP SEID (not addressable).
	ErrCodeSepInUse                 ErrorCode = 0x13 // The SEP is in use.
	ErrCodeSepNotInUse              ErrorCode = 0x14 // The SEP is not in use.
	ErrCodeBadServiceCategory       ErrorCode = 0x17 // The value of Service Category in the request packet is not defined.
	ErrCodeBadPayloadFormat         ErrorCode = 0x18 // The requested command has an incorrect payload format.
	ErrCodeNotSupportedCommand      ErrorCode = 0x19 // The requested command is not supported by the device.
	ErrCodeInvalidCapabilities      ErrorCode = 0x1A // The reconfigure command is an attempt to reconfigure a transport service capability.
	ErrCodeBadRecoveryType          ErrorCode = 0x22 // The requested Recovery Type is not defined.
	ErrCodeBadMediaTransportFormat  ErrorCode = 0x23 // The format of Media Transport Capability is not correct.
	ErrCodeBadRecoveryFormat        ErrorCode = 0x25 // The format of Recovery Service Capability is not correct.
	ErrCodeBadRohcFormat            ErrorCode = 0x26 // The format of Header Compression Service Capability is not correct.
	ErrCodeBadCpFormat              ErrorCode = 0x27 // The format of Content Protection Service Capability is not correct.
	ErrCodeBadMultiplexingFormat    ErrorCode = 0x28 // The format of Multiplexing Service Capability is not correct.
	ErrCodeUnsupportedConfiguration ErrorCode = 0x29 // Configuration not supported.
	ErrCodeBadState                 ErrorCode = 0x31 // Indicates that the ACP state machine is in an invalid state.
)

func (e ErrorCode) Error() string {
	if n, ok := errName[e]; ok {
		return n
	}
	switch i := int(e); {
	case i >= 0x80 && i <= 0xBF: // Reserved for the application profile
		return "profile error"
	case i >= 0xC0: // Content protection specific
		return "content protection error"
	default:
		return "reserved error code"
	}
}

func (e ErrorCode) String() string { return e.Error() }

var errName = map[ErrorCode]string{
	ErrCodeBadHeaderFormat:          "bad header format",
	ErrCodeBadLength:                "bad length",
	ErrCodeBadAcpSeid:               "bad ACP SEID",
	ErrCodeSepInUse:                 "SEP in use",
	ErrCodeSepNotInUse:              "SEP not in use",
	ErrCodeBadServiceCategory:       "bad service category",
	ErrCodeBadPayloadFormat:         "bad payload format",
	ErrCodeNotSupportedCommand:      "not supported command",
	ErrCodeInvalidCapabilities:      "invalid capabilities",
	ErrCodeBadRecoveryType:          "bad recovery type",
	ErrCodeBadMediaTransportFormat:  "bad media transport format",
	ErrCodeBadRecoveryFormat:        "bad recovery format",
	ErrCodeBadRohcFormat:            "bad ROHC format",
	ErrCodeBadCpFormat:              "bad CP format",
	ErrCodeBadMultiplexingFormat:    "bad multiplexing format",
	ErrCodeUnsupportedConfiguration: "unsupported configuration",
	ErrCodeBadState:                 "bad state",
}
