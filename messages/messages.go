package messages

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/uruz/geom"
	"github.com/segmentio/encoding/json"
)

// MsgType identifies a message exchanged over a geometry session.
type MsgType string

const (
	MsgTypePingRequest            MsgType = "PING_REQUEST"
	MsgTypePingResponse           MsgType = "PING_RESPONSE"
	MsgTypeBrushQuadRequest       MsgType = "BRUSH_QUAD_REQUEST"
	MsgTypeBrushQuadResponse      MsgType = "BRUSH_QUAD_RESPONSE"
	MsgTypeDeformRequest          MsgType = "DEFORM_REQUEST"
	MsgTypeDeformResponse         MsgType = "DEFORM_RESPONSE"
	MsgTypeClassifyPointRequest   MsgType = "CLASSIFY_POINT_REQUEST"
	MsgTypeClassifyPointResponse  MsgType = "CLASSIFY_POINT_RESPONSE"
	MsgTypeSegmentPlaneRequest    MsgType = "SEGMENT_PLANE_REQUEST"
	MsgTypeSegmentPlaneResponse   MsgType = "SEGMENT_PLANE_RESPONSE"
	MsgTypeQuadsIntersectRequest  MsgType = "QUADS_INTERSECT_REQUEST"
	MsgTypeQuadsIntersectResponse MsgType = "QUADS_INTERSECT_RESPONSE"
	MsgTypeErrorResponse          MsgType = "ERROR_RESPONSE"
	MsgTypeSyncClock              MsgType = "SYNC_CLOCK"
)

// ErrorCode qualifies an ErrorResponse.
type ErrorCode string

const (
	ErrorCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrorCodeDegenerateGeometry  ErrorCode = "DEGENERATE_GEOMETRY"
	ErrorCodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
)

// OutMsg is an outgoing message that can be encoded and sent to a
// client.
type OutMsg interface {
	MsgType() MsgType
}

// Msg is a received message. The payload stays raw until a handler
// binds it with DataTo.
type Msg struct {
	Type         MsgType
	Timestamp    time.Time
	RequestID    uint32
	TimeReceived time.Time

	data []byte
}

type envelope struct {
	Type      MsgType   `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID uint32    `json:"request_id"`
}

// MsgFromBytes decodes the message envelope and wraps the raw payload.
func MsgFromBytes(b []byte) (Msg, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Msg{}, errors.New("decoding message envelope failed").Wrap(err)
	}

	return Msg{
		Type:         env.Type,
		Timestamp:    env.Timestamp,
		RequestID:    env.RequestID,
		TimeReceived: time.Now(),
		data:         b,
	}, nil
}

// MsgFromOut encodes an outgoing message into its wire form.
func MsgFromOut(out OutMsg) (Msg, error) {
	b, err := json.Marshal(out)
	if err != nil {
		return Msg{}, errors.New("encoding message failed").
			WithTag("msg_type", out.MsgType()).
			Wrap(err)
	}

	return Msg{
		Type: out.MsgType(),
		data: b,
	}, nil
}

// DataTo decodes the message payload into the given value.
func (m Msg) DataTo(v any) error {
	if err := json.Unmarshal(m.data, v); err != nil {
		return errors.New("decoding message payload failed").
			WithTag("msg_type", m.Type).
			Wrap(err)
	}
	return nil
}

func (m Msg) Bytes() []byte {
	return m.data
}

func (m Msg) TypeString() string {
	return string(m.Type)
}

// Request is the envelope common to client requests.
type Request struct {
	Type      MsgType   `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID uint32    `json:"request_id"`
}

func (r Request) MsgType() MsgType {
	return r.Type
}

// Response is the envelope common to server responses. RequestID
// echoes the request it answers and is left out on server initiated
// messages.
type Response struct {
	Type      MsgType   `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RequestID uint32    `json:"request_id,omitempty"`
}

func (r Response) MsgType() MsgType {
	return r.Type
}

type ErrorResponse struct {
	Response
	Code ErrorCode `json:"code"`
}

// BrushQuadRequest asks for an oriented deformation quad at the brush
// position, using the given surface samples to pick the base plane.
type BrushQuadRequest struct {
	Request
	Position  Point    `json:"position"`
	Direction Vector   `json:"direction"`
	Radius    float32  `json:"radius"`
	Samples   []Sample `json:"samples,omitempty"`
}

type BrushQuadResponse struct {
	Response
	Quad         Quad   `json:"quad"`
	BaseNormal   Vector `json:"base_normal"`
	FallbackUsed bool   `json:"fallback_used"`
}

// DeformRequest scales each vertex along the deformation normal.
// Vertices and rays are parallel, rays[i] going from the deformation
// origin to vertices[i].
type DeformRequest struct {
	Request
	Vertices []Point  `json:"vertices"`
	Rays     []Vector `json:"rays"`
	Normal   Vector   `json:"normal"`
	Factor   float32  `json:"factor"`
}

type DeformResponse struct {
	Response
	Vertices    []Point `json:"vertices"`
	AnchorIndex int     `json:"anchor_index"`
}

type ClassifyPointRequest struct {
	Request
	Point       Point  `json:"point"`
	PlanePoint  Point  `json:"plane_point"`
	PlaneNormal Vector `json:"plane_normal"`
}

type ClassifyPointResponse struct {
	Response
	Side geom.PointSide `json:"side"`
}

type SegmentPlaneRequest struct {
	Request
	SegmentBegin Point  `json:"segment_begin"`
	SegmentEnd   Point  `json:"segment_end"`
	PlanePoint   Point  `json:"plane_point"`
	PlaneNormal  Vector `json:"plane_normal"`
}

type SegmentPlaneResponse struct {
	Response
	Kind  geom.SegmentPlaneIntersectionKind `json:"kind"`
	Point *Point                            `json:"point,omitempty"`
}

type QuadsIntersectRequest struct {
	Request
	A Quad `json:"a"`
	B Quad `json:"b"`
}

type QuadsIntersectResponse struct {
	Response
	Intersects bool `json:"intersects"`
}

type SyncClock struct {
	Response
}
