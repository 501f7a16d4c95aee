package websocket

import (
	"context"
	"math"
	"time"

	"github.com/aukilabs/uruz/featureflag"
	"github.com/aukilabs/uruz/geom"
	uruzhttp "github.com/aukilabs/uruz/http"
	"github.com/aukilabs/uruz/messages"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// GeometryHandler represents a service that answers geometry queries
// from a client connection. All queries are stateless, state is limited
// to the connection itself.
type GeometryHandler struct {
	// The interval between each sync clock message sent to the connected
	// client.
	ClientSyncClockInterval time.Duration

	// The time a client is idle before being disconnected.
	ClientIdleTimeout time.Duration

	FeatureFlags featureflag.FeatureFlag

	conn     *websocket.Conn
	clientID string
}

func (h *GeometryHandler) HandleConnect(conn *websocket.Conn) {
	req := conn.Request()
	h.clientID = req.Header.Get(uruzhttp.HeaderClientID)
	if h.clientID == "" {
		h.clientID = uuid.NewString()
	}

	h.conn = conn
}

func (h *GeometryHandler) HandleDisconnect(_ error) {
}

func (h *GeometryHandler) HandlePing(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.Request
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	respond.Send(&messages.Response{
		Type:      messages.MsgTypePingResponse,
		Timestamp: time.Now(),
		RequestID: req.RequestID,
	})
	return nil
}

func (h *GeometryHandler) HandleBrushQuad(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.BrushQuadRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	direction := req.Direction.ToGeom()
	if !vectorIsFinite(direction) || direction.Length() == 0 || req.Radius <= 0 {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeBadRequest,
		})
		return nil
	}

	directions, positions, weights := messages.SamplesToGeom(req.Samples)

	baseNormal, ok := geom.PickBasePlaneNormal(directions, positions, weights)
	if !ok {
		baseNormal = geom.WorldPerpendicular(direction)
	}

	quad := geom.MakeQuad(req.Position.ToGeom(), direction, req.Radius, baseNormal)
	if !quadIsFinite(quad) {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeDegenerateGeometry,
		})
		return nil
	}

	respond.Send(&messages.BrushQuadResponse{
		Response: messages.Response{
			Type:      messages.MsgTypeBrushQuadResponse,
			Timestamp: time.Now(),
			RequestID: req.RequestID,
		},
		Quad:         messages.QuadFromGeom(quad),
		BaseNormal:   messages.VectorFromGeom(baseNormal),
		FallbackUsed: !ok,
	})
	return nil
}

func (h *GeometryHandler) HandleDeform(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.DeformRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	normal := req.Normal.ToGeom()
	if len(req.Vertices) == 0 ||
		len(req.Vertices) != len(req.Rays) ||
		!vectorIsFinite(normal) ||
		normal.Length() == 0 {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeBadRequest,
		})
		return nil
	}

	vertices := messages.PointsToGeom(req.Vertices)
	rays := messages.VectorsToGeom(req.Rays)

	deformed := make([]geom.Point3, len(vertices))
	for i, v := range vertices {
		deformed[i] = geom.DeformedPosition(v, rays[i], normal, req.Factor)

		if !pointIsFinite(deformed[i]) {
			respond.Send(&messages.ErrorResponse{
				Response: messages.Response{
					Type:      messages.MsgTypeErrorResponse,
					Timestamp: time.Now(),
					RequestID: req.RequestID,
				},
				Code: messages.ErrorCodeDegenerateGeometry,
			})
			return nil
		}
	}

	respond.Send(&messages.DeformResponse{
		Response: messages.Response{
			Type:      messages.MsgTypeDeformResponse,
			Timestamp: time.Now(),
			RequestID: req.RequestID,
		},
		Vertices: messages.PointsFromGeom(deformed),
		// The anchor is picked on the undeformed vertices so it is stable
		// across repeated deform calls on the same selection.
		AnchorIndex: geom.PickLeastObviousVertex(vertices),
	})
	return nil
}

func (h *GeometryHandler) HandleClassifyPoint(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.ClassifyPointRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	normal := req.PlaneNormal.ToGeom()
	if !vectorIsFinite(normal) || normal.Length() == 0 {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeBadRequest,
		})
		return nil
	}

	var side geom.PointSide
	if h.FeatureFlags.IsSet(featureflag.FlagCoincidentTolerance) {
		side = geom.PointSideOnPlaneWithin(req.Point.ToGeom(), req.PlanePoint.ToGeom(), normal, geom.SMALL_NUM)
	} else {
		side = geom.PointSideOnPlane(req.Point.ToGeom(), req.PlanePoint.ToGeom(), normal)
	}

	respond.Send(&messages.ClassifyPointResponse{
		Response: messages.Response{
			Type:      messages.MsgTypeClassifyPointResponse,
			Timestamp: time.Now(),
			RequestID: req.RequestID,
		},
		Side: side,
	})
	return nil
}

func (h *GeometryHandler) HandleSegmentPlane(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.SegmentPlaneRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	normal := req.PlaneNormal.ToGeom()
	if !vectorIsFinite(normal) ||
		normal.Length() == 0 ||
		!pointIsFinite(req.SegmentBegin.ToGeom()) ||
		!pointIsFinite(req.SegmentEnd.ToGeom()) {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeBadRequest,
		})
		return nil
	}

	intersection := geom.IntersectSegmentPlane(
		req.SegmentBegin.ToGeom(),
		req.SegmentEnd.ToGeom(),
		req.PlanePoint.ToGeom(),
		normal,
	)

	res := messages.SegmentPlaneResponse{
		Response: messages.Response{
			Type:      messages.MsgTypeSegmentPlaneResponse,
			Timestamp: time.Now(),
			RequestID: req.RequestID,
		},
		Kind: intersection.Kind,
	}
	if intersection.Kind == geom.SegmentPlaneIntersects {
		point := messages.PointFromGeom(intersection.Point)
		res.Point = &point
	}

	respond.Send(&res)
	return nil
}

func (h *GeometryHandler) HandleQuadsIntersect(ctx context.Context, respond ResponseSender, msg messages.Msg) error {
	var req messages.QuadsIntersectRequest
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	a := req.A.ToGeom()
	b := req.B.ToGeom()
	if !quadIsFinite(a) || !quadIsFinite(b) {
		respond.Send(&messages.ErrorResponse{
			Response: messages.Response{
				Type:      messages.MsgTypeErrorResponse,
				Timestamp: time.Now(),
				RequestID: req.RequestID,
			},
			Code: messages.ErrorCodeBadRequest,
		})
		return nil
	}

	var intersects bool
	h.FeatureFlags.IfSet(featureflag.FlagQuadContainment, func() {
		intersects = geom.QuadsIntersectInclusive(a, b)
	})
	h.FeatureFlags.IfNotSet(featureflag.FlagQuadContainment, func() {
		intersects = geom.QuadsIntersect(a, b)
	})

	respond.Send(&messages.QuadsIntersectResponse{
		Response: messages.Response{
			Type:      messages.MsgTypeQuadsIntersectResponse,
			Timestamp: time.Now(),
			RequestID: req.RequestID,
		},
		Intersects: intersects,
	})
	return nil
}

func (h *GeometryHandler) SendSyncClock(ctx context.Context, respond ResponseSender) error {
	respond.Send(&messages.SyncClock{
		Response: messages.Response{
			Type:      messages.MsgTypeSyncClock,
			Timestamp: time.Now(),
		},
	})
	return nil
}

func (h *GeometryHandler) Receiver() Receiver {
	return func() (messages.Msg, int, error) {
		return Receive(h.conn)
	}
}

func (h *GeometryHandler) Sender() Sender {
	return func(msg messages.Msg) (int, error) {
		return Send(h.conn, msg)
	}
}

func (h *GeometryHandler) Close() {
}

func (h *GeometryHandler) SyncClockInterval() time.Duration {
	return h.ClientSyncClockInterval
}

func (h *GeometryHandler) IdleTimeout() time.Duration {
	return h.ClientIdleTimeout
}

func (h *GeometryHandler) GetClientID() string {
	return h.clientID
}

func isFinite(f float32) bool {
	f64 := (float64)(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}

func vectorIsFinite(v geom.Vector3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func pointIsFinite(p geom.Point3) bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

func quadIsFinite(q geom.Quad) bool {
	for _, p := range q {
		if !pointIsFinite(p) {
			return false
		}
	}
	return true
}
