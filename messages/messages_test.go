package messages

import (
	"testing"
	"time"

	"github.com/aukilabs/uruz/geom"
	"github.com/stretchr/testify/require"
)

func TestMsgFromBytes(t *testing.T) {
	t.Run("envelope fields are decoded", func(t *testing.T) {
		msg, err := MsgFromBytes([]byte(`{
			"type": "CLASSIFY_POINT_REQUEST",
			"timestamp": "2024-05-02T10:41:00Z",
			"request_id": 42,
			"point": {"x": 1, "y": 2, "z": 3}
		}`))
		require.NoError(t, err)
		require.Equal(t, MsgTypeClassifyPointRequest, msg.Type)
		require.Equal(t, uint32(42), msg.RequestID)
		require.False(t, msg.TimeReceived.IsZero())
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		_, err := MsgFromBytes([]byte(`{"type":`))
		require.Error(t, err)
	})
}

func TestMsgDataTo(t *testing.T) {
	msg, err := MsgFromBytes([]byte(`{
		"type": "BRUSH_QUAD_REQUEST",
		"request_id": 7,
		"position": {"x": 1, "y": 2, "z": 3},
		"direction": {"x": 0, "y": 1, "z": 0},
		"radius": 2.5,
		"samples": [
			{"direction": {"x": 0, "y": 1, "z": 0}, "position": {"x": 0, "y": 0, "z": 0}, "weight": 0.9}
		]
	}`))
	require.NoError(t, err)

	var req BrushQuadRequest
	require.NoError(t, msg.DataTo(&req))
	require.Equal(t, MsgTypeBrushQuadRequest, req.Type)
	require.Equal(t, uint32(7), req.RequestID)
	require.Equal(t, Point{X: 1, Y: 2, Z: 3}, req.Position)
	require.Equal(t, Vector{Y: 1}, req.Direction)
	require.Equal(t, float32(2.5), req.Radius)
	require.Len(t, req.Samples, 1)
	require.Equal(t, float32(0.9), req.Samples[0].Weight)
}

func TestMsgFromOut(t *testing.T) {
	out, err := MsgFromOut(&ClassifyPointResponse{
		Response: Response{
			Type:      MsgTypeClassifyPointResponse,
			Timestamp: time.Now(),
			RequestID: 42,
		},
		Side: geom.PointSideFront,
	})
	require.NoError(t, err)
	require.Equal(t, MsgTypeClassifyPointResponse, out.Type)

	msg, err := MsgFromBytes(out.Bytes())
	require.NoError(t, err)
	require.Equal(t, MsgTypeClassifyPointResponse, msg.Type)
	require.Equal(t, uint32(42), msg.RequestID)

	var res ClassifyPointResponse
	require.NoError(t, msg.DataTo(&res))
	require.Equal(t, geom.PointSideFront, res.Side)
}

func TestQuadConversionKeepsWindingOrder(t *testing.T) {
	q := Quad{
		Point{X: -1, Y: 0, Z: -1},
		Point{X: 1, Y: 0, Z: -1},
		Point{X: 1, Y: 0, Z: 1},
		Point{X: -1, Y: 0, Z: 1},
	}

	g := q.ToGeom()
	require.Equal(t, geom.Point3{X: -1, Z: -1}, g[0])
	require.Equal(t, geom.Point3{X: 1, Z: 1}, g[2])
	require.Equal(t, q, QuadFromGeom(g))
}

func TestSamplesToGeom(t *testing.T) {
	normals, positions, weights := SamplesToGeom([]Sample{
		{Direction: Vector{Y: 1}, Position: Point{X: 1}, Weight: 0.9},
		{Direction: Vector{Z: 1}, Position: Point{X: 2}, Weight: 0.1},
	})

	require.Equal(t, []geom.Vector3{{Y: 1}, {Z: 1}}, normals)
	require.Equal(t, []geom.Point3{{X: 1}, {X: 2}}, positions)
	require.Equal(t, []float32{0.9, 0.1}, weights)
}
