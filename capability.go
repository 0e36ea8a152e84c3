package avdtp

import "encoding/binary"

// ServiceCapability is one entry of a capability list [AVDTP 8.21].
//
//	| service category(8) | LOSC(8) | service capabilities information (LOSC) |
type ServiceCapability interface {
	// Category returns the service category.
	Category() ServiceCategory

	// Len returns the encoded size, including the two byte category header.
	Len() int

	// Marshal encodes the capability into b.
	Marshal(b []byte) error
}

// MediaTransport is the media transport capability. It has no body.
type MediaTransport struct{}

// Reporting is the reporting capability. It has no body.
type Reporting struct{}

// DelayReporting is the delay reporting capability. It has no body.
type DelayReporting struct{}

// Recovery is the recovery capability.
type Recovery struct {
	Type                  uint8
	MaxRecoveryWindowSize uint8
	MaxNumberMediaPackets uint8
}

// ContentProtection is the content protection capability.
type ContentProtection struct {
	Type  ContentProtectionType
	Extra []byte
}

// MediaCodec is the media codec capability. CodecExtra holds the codec
// specific information elements.
type MediaCodec struct {
	MediaType  MediaType
	CodecType  MediaCodecType
	CodecExtra []byte
}

func (MediaTransport) Category() ServiceCategory    { return CategoryMediaTransport }
func (Reporting) Category() ServiceCategory         { return CategoryReporting }
func (DelayReporting) Category() ServiceCategory    { return CategoryDelayReporting }
func (Recovery) Category() ServiceCategory          { return CategoryRecovery }
func (ContentProtection) Category() ServiceCategory { return CategoryContentProtection }
func (MediaCodec) Category() ServiceCategory        { return CategoryMediaCodec }

func (MediaTransport) Len() int      { return 2 }
func (Reporting) Len() int           { return 2 }
func (DelayReporting) Len() int      { return 2 }
func (Recovery) Len() int            { return 5 }
func (c ContentProtection) Len() int { return 4 + len(c.Extra) }
func (c MediaCodec) Len() int        { return 4 + len(c.CodecExtra) }

func (c MediaTransport) Marshal(b []byte) error { return marshalEmpty(c, b) }
func (c Reporting) Marshal(b []byte) error      { return marshalEmpty(c, b) }
func (c DelayReporting) Marshal(b []byte) error { return marshalEmpty(c, b) }

func marshalEmpty(c ServiceCapability, b []byte) error {
	if len(b) < 2 {
		return ErrEncoding
	}
	b[0], b[1] = byte(c.Category()), 0
	return nil
}

func (c Recovery) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return ErrEncoding
	}
	b[0], b[1] = byte(CategoryRecovery), 3
	b[2], b[3], b[4] = c.Type, c.MaxRecoveryWindowSize, c.MaxNumberMediaPackets
	return nil
}

func (c ContentProtection) Marshal(b []byte) error {
	if len(b) < c.Len() || c.Len()-2 > 0xFF {
		return ErrEncoding
	}
	b[0], b[1] = byte(CategoryContentProtection), byte(c.Len()-2)
	binary.LittleEndian.PutUint16(b[2:], uint16(c.Type))
	copy(b[4:], c.Extra)
	return nil
}

func (c MediaCodec) Marshal(b []byte) error {
	if len(b) < c.Len() || c.Len()-2 > 0xFF {
		return ErrEncoding
	}
	b[0], b[1] = byte(CategoryMediaCodec), byte(c.Len()-2)
	b[2], b[3] = uint8(c.MediaType)<<4, uint8(c.CodecType)
	copy(b[4:], c.CodecExtra)
	return nil
}

// UnmarshalCapability decodes the capability at the front of b.
// The body is bounded by the LOSC byte; bytes past it are left for the next
// capability.
func UnmarshalCapability(b []byte) (ServiceCapability, error) {
	c, _, err := unmarshalCapability(b)
	return c, err
}

func unmarshalCapability(b []byte) (ServiceCapability, int, error) {
	if len(b) < 2 {
		return nil, 0, ErrInvalidMessage
	}
	n := 2 + int(b[1])
	if len(b) < n {
		return nil, 0, ErrInvalidMessage
	}
	body := b[2:n]
	switch ServiceCategory(b[0]) {
	case CategoryMediaTransport:
		return MediaTransport{}, n, nil
	case CategoryReporting:
		return Reporting{}, n, nil
	case CategoryDelayReporting:
		return DelayReporting{}, n, nil
	case CategoryRecovery:
		if len(body) < 3 {
			return nil, 0, ErrInvalidMessage
		}
		return Recovery{
			Type:                  body[0],
			MaxRecoveryWindowSize: body[1],
			MaxNumberMediaPackets: body[2],
		}, n, nil
	case CategoryContentProtection:
		if len(body) < 2 {
			return nil, 0, ErrInvalidMessage
		}
		t := ContentProtectionType(binary.LittleEndian.Uint16(body))
		if t != ContentProtectionDTCP && t != ContentProtectionSCMST {
			return nil, 0, ErrOutOfRange
		}
		return ContentProtection{Type: t, Extra: clone(body[2:])}, n, nil
	case CategoryMediaCodec:
		if len(body) < 2 {
			return nil, 0, ErrInvalidMessage
		}
		mt, err := parseMediaType(body[0] >> 4)
		if err != nil {
			return nil, 0, err
		}
		return MediaCodec{
			MediaType:  mt,
			CodecType:  MediaCodecType(body[1]),
			CodecExtra: clone(body[2:]),
		}, n, nil
	}
	return nil, 0, ErrInvalidMessage
}

// UnmarshalCapabilities decodes a list of capabilities filling b.
func UnmarshalCapabilities(b []byte) ([]ServiceCapability, error) {
	var caps []ServiceCapability
	for len(b) > 0 {
		c, n, err := unmarshalCapability(b)
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
		b = b[n:]
	}
	return caps, nil
}

// capabilitiesLen returns the encoded size of caps.
func capabilitiesLen(caps []ServiceCapability) int {
	n := 0
	for _, c := range caps {
		n += c.Len()
	}
	return n
}

// marshalCapabilities encodes caps back to back into b.
func marshalCapabilities(caps []ServiceCapability, b []byte) error {
	for _, c := range caps {
		if err := c.Marshal(b); err != nil {
			return err
		}
		b = b[c.Len():]
	}
	return nil
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
