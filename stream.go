package avdtp

import "fmt"

// StreamEndpointID is a 6-bit stream endpoint identifier (SEID).
type StreamEndpointID uint8

// NewStreamEndpointID returns v as a SEID, or ErrOutOfRange if v is 0 or above 0x3E.
func NewStreamEndpointID(v uint8) (StreamEndpointID, error) {
	if v < MinStreamEndpointID || v > MaxStreamEndpointID {
		return 0, ErrOutOfRange
	}
	return StreamEndpointID(v), nil
}

// seidFromField extracts a SEID from a byte whose upper six bits hold it.
func seidFromField(b byte) StreamEndpointID { return StreamEndpointID(b >> 2) }

func (id StreamEndpointID) field() byte { return byte(id) << 2 }

// Valid reports whether id is in the assignable range 0x01..0x3E.
func (id StreamEndpointID) Valid() bool {
	return id >= MinStreamEndpointID && id <= MaxStreamEndpointID
}

func (id StreamEndpointID) String() string { return fmt.Sprintf("SEID(%d)", uint8(id)) }

// StreamInformation describes one stream endpoint in a Discover response.
//
//	| ACP SEID(6) | in use(1) | rfa(1) | media type(4) | TSEP(1) | rfa(3) |
type StreamInformation struct {
	ID           StreamEndpointID
	InUse        bool
	MediaType    MediaType
	EndpointType EndpointType
}

// streamInformationLen is the encoded size of a StreamInformation.
const streamInformationLen = 2

// Len returns the encoded size.
func (s StreamInformation) Len() int { return streamInformationLen }

// Marshal encodes s into b. It fails with ErrOutOfRange for a SEID that
// can't be encoded.
func (s StreamInformation) Marshal(b []byte) error {
	if !s.ID.Valid() {
		return ErrOutOfRange
	}
	if len(b) < streamInformationLen {
		return ErrEncoding
	}
	b[0] = s.ID.field()
	if s.InUse {
		b[0] |= 0x02
	}
	b[1] = uint8(s.MediaType)<<4 | uint8(s.EndpointType)<<3
	return nil
}

// UnmarshalStreamInformation decodes a StreamInformation from the front of b.
func UnmarshalStreamInformation(b []byte) (StreamInformation, error) {
	if len(b) < streamInformationLen {
		return StreamInformation{}, ErrInvalidMessage
	}
	id, err := NewStreamEndpointID(b[0] >> 2)
	if err != nil {
		return StreamInformation{}, err
	}
	mt, err := parseMediaType(b[1] >> 4)
	if err != nil {
		return StreamInformation{}, err
	}
	return StreamInformation{
		ID:           id,
		InUse:        b[0]&0x02 != 0,
		MediaType:    mt,
		EndpointType: EndpointType(b[1]>>3) & 0x01,
	}, nil
}
