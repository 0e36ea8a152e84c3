package avdtp

import "fmt"

// PacketType is the packet type field of a signaling header [AVDTP 8.4.2].
type PacketType uint8

// Signaling packet types.
const (
	PacketSingle   PacketType = 0x00 // Single packet, no fragmentation.
	PacketStart    PacketType = 0x01 // Start of a fragmented message.
	PacketContinue PacketType = 0x02 // Continuation of a fragmented message.
	PacketEnd      PacketType = 0x03 // End of a fragmented message.
)

func (t PacketType) String() string {
	switch t {
	case PacketSingle:
		return "single"
	case PacketStart:
		return "start"
	case PacketContinue:
		return "continue"
	case PacketEnd:
		return "end"
	}
	return fmt.Sprintf("packet(%d)", uint8(t))
}

// MessageType is the message type field of a signaling header [AVDTP 8.4.3].
type MessageType uint8

// Signaling message types.
const (
	MessageCommand        MessageType = 0x00
	MessageGeneralReject  MessageType = 0x01
	MessageResponseAccept MessageType = 0x02
	MessageResponseReject MessageType = 0x03
)

func (t MessageType) String() string {
	switch t {
	case MessageCommand:
		return "command"
	case MessageGeneralReject:
		return "general reject"
	case MessageResponseAccept:
		return "accept"
	case MessageResponseReject:
		return "reject"
	}
	return fmt.Sprintf("message(%d)", uint8(t))
}

// SignalIdentifier identifies a signaling procedure [AVDTP 8.5].
type SignalIdentifier uint8

// Signal identifiers.
const (
	SignalDiscover           SignalIdentifier = 0x01
	SignalGetCapabilities    SignalIdentifier = 0x02
	SignalSetConfiguration   SignalIdentifier = 0x03
	SignalGetConfiguration   SignalIdentifier = 0x04
	SignalReconfigure        SignalIdentifier = 0x05
	SignalOpen               SignalIdentifier = 0x06
	SignalStart              SignalIdentifier = 0x07
	SignalClose              SignalIdentifier = 0x08
	SignalSuspend            SignalIdentifier = 0x09
	SignalAbort              SignalIdentifier = 0x0A
	SignalSecurityControl    SignalIdentifier = 0x0B
	SignalGetAllCapabilities SignalIdentifier = 0x0C
	SignalDelayReport        SignalIdentifier = 0x0D
)

var signalName = map[SignalIdentifier]string{
	SignalDiscover:           "discover",
	SignalGetCapabilities:    "get capabilities",
	SignalSetConfiguration:   "set configuration",
	SignalGetConfiguration:   "get configuration",
	SignalReconfigure:        "reconfigure",
	SignalOpen:               "open",
	SignalStart:              "start",
	SignalClose:              "close",
	SignalSuspend:            "suspend",
	SignalAbort:              "abort",
	SignalSecurityControl:    "security control",
	SignalGetAllCapabilities: "get all capabilities",
	SignalDelayReport:        "delay report",
}

// Valid reports whether s is a defined signal identifier.
func (s SignalIdentifier) Valid() bool {
	_, ok := signalName[s]
	return ok
}

func (s SignalIdentifier) String() string {
	if n, ok := signalName[s]; ok {
		return n
	}
	return fmt.Sprintf("signal(0x%02X)", uint8(s))
}

// MediaType is the media type of a stream endpoint, as listed in the
// Bluetooth assigned numbers for audio/video.
type MediaType uint8

// Media types.
const (
	MediaAudio      MediaType = 0x00
	MediaVideo      MediaType = 0x01
	MediaMultimedia MediaType = 0x02
)

func parseMediaType(v uint8) (MediaType, error) {
	if v > uint8(MediaMultimedia) {
		return 0, ErrOutOfRange
	}
	return MediaType(v), nil
}

func (t MediaType) String() string {
	switch t {
	case MediaAudio:
		return "audio"
	case MediaVideo:
		return "video"
	case MediaMultimedia:
		return "multimedia"
	}
	return fmt.Sprintf("media(%d)", uint8(t))
}

// EndpointType is the role of a stream endpoint.
type EndpointType uint8

// Endpoint types.
const (
	EndpointSource EndpointType = 0x00
	EndpointSink   EndpointType = 0x01
)

func (t EndpointType) String() string {
	switch t {
	case EndpointSource:
		return "source"
	case EndpointSink:
		return "sink"
	}
	return fmt.Sprintf("endpoint(%d)", uint8(t))
}

// ServiceCategory identifies a service capability [AVDTP 8.21.1].
type ServiceCategory uint8

// Service categories.
const (
	CategoryMediaTransport    ServiceCategory = 0x01
	CategoryReporting         ServiceCategory = 0x02
	CategoryRecovery          ServiceCategory = 0x03
	CategoryContentProtection ServiceCategory = 0x04
	CategoryHeaderCompression ServiceCategory = 0x05
	CategoryMultiplexing      ServiceCategory = 0x06
	CategoryMediaCodec        ServiceCategory = 0x07
	CategoryDelayReporting    ServiceCategory = 0x08
)

func (c ServiceCategory) String() string {
	switch c {
	case CategoryMediaTransport:
		return "media transport"
	case CategoryReporting:
		return "reporting"
	case CategoryRecovery:
		return "recovery"
	case CategoryContentProtection:
		return "content protection"
	case CategoryHeaderCompression:
		return "header compression"
	case CategoryMultiplexing:
		return "multiplexing"
	case CategoryMediaCodec:
		return "media codec"
	case CategoryDelayReporting:
		return "delay reporting"
	}
	return fmt.Sprintf("category(0x%02X)", uint8(c))
}

// ContentProtectionType is a content protection scheme from the Bluetooth
// assigned numbers.
type ContentProtectionType uint16

// Content protection types.
const (
	ContentProtectionDTCP  ContentProtectionType = 0x0001
	ContentProtectionSCMST ContentProtectionType = 0x0002
)

func (t ContentProtectionType) String() string {
	switch t {
	case ContentProtectionDTCP:
		return "DTCP"
	case ContentProtectionSCMST:
		return "SCMS-T"
	}
	return fmt.Sprintf("cp(0x%04X)", uint16(t))
}

// MediaCodecType is the codec type byte of a media codec capability.
// Values depend on the media type; for audio 0x00 is SBC.
type MediaCodecType uint8

// Audio codec types from the A2DP specification.
const (
	CodecSBC       MediaCodecType = 0x00
	CodecMPEG12    MediaCodecType = 0x01
	CodecMPEG24AAC MediaCodecType = 0x02
	CodecATRAC     MediaCodecType = 0x04
	CodecNonA2DP   MediaCodecType = 0xFF
)

var codecName = map[MediaCodecType]string{
	CodecSBC:       "SBC",
	CodecMPEG12:    "MPEG-1,2",
	CodecMPEG24AAC: "MPEG-2,4 AAC",
	CodecATRAC:     "ATRAC",
	CodecNonA2DP:   "non-A2DP",
}

func (t MediaCodecType) String() string {
	if n, ok := codecName[t]; ok {
		return n
	}
	return fmt.Sprintf("codec(0x%02X)", uint8(t))
}

// Protocol limits.
const (
	// DefaultRxMTU is the L2CAP default MTU for a signaling channel.
	DefaultRxMTU = 672

	// MaxTxID is the largest transaction label; the field is 4 bits wide.
	MaxTxID = 0x0F

	// MinStreamEndpointID and MaxStreamEndpointID bound the 6-bit SEID.
	// 0x00 and 0x3F are reserved.
	MinStreamEndpointID = 0x01
	MaxStreamEndpointID = 0x3E
)
