package smoketest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/uruz/geom"
	uruzhttp "github.com/aukilabs/uruz/http"
	"github.com/aukilabs/uruz/messages"
	"github.com/aukilabs/uruz/scenario"
	"golang.org/x/net/websocket"
)

// DefaultTimeout bounds a smoke test run when the request does not set
// one.
const DefaultTimeout = time.Second * 10

// SmokeTestRequest asks a server to smoke test the given endpoint.
type SmokeTestRequest struct {
	Endpoint string        `json:"endpoint"`
	Timeout  time.Duration `json:"timeout"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// SmokeTestResults is the outcome of a smoke test run.
type SmokeTestResults struct {
	FromEndpoint    string  `json:"from_endpoint"`
	ToEndpoint      string  `json:"to_endpoint"`
	LatencyMilliSec float64 `json:"latency_millisec"`
	Status          Status  `json:"status"`
	Error           string  `json:"error,omitempty"`
}

type Options struct {
	Endpoint   string
	UserAgent  string
	SendResult func(context.Context, SmokeTestResults) error
}

type testCtxKey string

var testCtxKeyValue testCtxKey = "test-context"

type testContext struct {
	context.Context
	Cancel func()
}

func HandleSmokeTest(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			uruzhttp.InternalServerError(w, errors.New("reading body failed").Wrap(err))
			return
		}

		var req SmokeTestRequest
		if err := json.Unmarshal(b, &req); err != nil {
			uruzhttp.BadRequest(w, uruzhttp.ErrBadRequest)
			return
		}

		go func() {
			defer func() {
				// if context is of testContext
				// cancel context on exit to signal function exited
				// this is used for testing
				if tctx := ctx.Value(testCtxKeyValue); tctx != nil {
					testCtx := tctx.(testContext)
					if testCtx.Cancel != nil {
						testCtx.Cancel()
					}
				}
			}()

			res, err := RunSmokeTest(ctx, RunSmokeTestOptions{
				FromEndpoint: opts.Endpoint,
				ToEndpoint:   req.Endpoint,
				UserAgent:    opts.UserAgent,
				Timeout:      req.Timeout,
			})
			if err != nil {
				logs.Warn(err)
			}

			if err := opts.SendResult(ctx, res); err != nil {
				logs.WithTag("from_endpoint", opts.Endpoint).
					WithTag("to_endpoint", req.Endpoint).
					Warn(errors.New("sending smoke test result failed").Wrap(err))
			}
		}()

		w.WriteHeader(http.StatusOK)
	}
}

type RunSmokeTestOptions struct {
	FromEndpoint string
	ToEndpoint   string
	UserAgent    string
	Timeout      time.Duration
}

// RunSmokeTest dials the target endpoint and exercises one request of
// each geometry operation, checking the responses against the brush
// quad guarantees.
func RunSmokeTest(ctx context.Context, opts RunSmokeTestOptions) (SmokeTestResults, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	res := SmokeTestResults{
		FromEndpoint: opts.FromEndpoint,
		ToEndpoint:   opts.ToEndpoint,
		Status:       StatusFailed,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	conn, err := dial(opts)
	if err != nil {
		err = errors.New("dialing endpoint failed").
			WithTag("to_endpoint", opts.ToEndpoint).
			Wrap(err)
		res.Error = err.Error()
		return res, err
	}
	defer conn.Close()

	pingStart := time.Now()
	err = scenario.NewScenario(conn).
		Send(func() messages.OutMsg {
			return &messages.Request{
				Type:      messages.MsgTypePingRequest,
				Timestamp: time.Now(),
				RequestID: 1,
			}
		}).
		Receive(
			scenario.FilterByType(messages.MsgTypePingResponse),
			scenario.FilterByRequestID(1),
		).
		Run(ctx)
	if err != nil {
		err = errors.New("pinging endpoint failed").Wrap(err)
		res.Error = err.Error()
		return res, err
	}
	res.LatencyMilliSec = float64(time.Since(pingStart)) / float64(time.Millisecond)

	var quadRes messages.BrushQuadResponse
	var segmentRes messages.SegmentPlaneResponse
	var classifyRes messages.ClassifyPointResponse

	err = scenario.NewScenario(conn).
		Send(func() messages.OutMsg {
			return &messages.BrushQuadRequest{
				Request: messages.Request{
					Type:      messages.MsgTypeBrushQuadRequest,
					Timestamp: time.Now(),
					RequestID: 2,
				},
				Direction: messages.Vector{Y: 1},
				Radius:    1,
			}
		}).
		Receive(
			scenario.FilterByType(messages.MsgTypeBrushQuadResponse),
			scenario.FilterByRequestID(2),
			func(msg messages.Msg) error {
				return msg.DataTo(&quadRes)
			},
		).
		Send(func() messages.OutMsg {
			return &messages.SegmentPlaneRequest{
				Request: messages.Request{
					Type:      messages.MsgTypeSegmentPlaneRequest,
					Timestamp: time.Now(),
					RequestID: 3,
				},
				SegmentBegin: messages.Point{},
				SegmentEnd:   messages.Point{Y: 2},
				PlanePoint:   messages.Point{Y: 1},
				PlaneNormal:  messages.Vector{Y: 1},
			}
		}).
		Receive(
			scenario.FilterByType(messages.MsgTypeSegmentPlaneResponse),
			scenario.FilterByRequestID(3),
			func(msg messages.Msg) error {
				return msg.DataTo(&segmentRes)
			},
		).
		Send(func() messages.OutMsg {
			return &messages.ClassifyPointRequest{
				Request: messages.Request{
					Type:      messages.MsgTypeClassifyPointRequest,
					Timestamp: time.Now(),
					RequestID: 4,
				},
				Point:       messages.Point{Y: 1},
				PlanePoint:  messages.Point{Y: 1},
				PlaneNormal: messages.Vector{Y: 1},
			}
		}).
		Receive(
			scenario.FilterByType(messages.MsgTypeClassifyPointResponse),
			scenario.FilterByRequestID(4),
			func(msg messages.Msg) error {
				return msg.DataTo(&classifyRes)
			},
		).
		Run(ctx)
	if err != nil {
		err = errors.New("running geometry checks failed").Wrap(err)
		res.Error = err.Error()
		return res, err
	}

	if err := checkResponses(quadRes, segmentRes, classifyRes); err != nil {
		res.Error = err.Error()
		return res, err
	}

	res.Status = StatusSuccess
	return res, nil
}

// checkResponses validates that the answers are consistent with each
// other: the quad is centered on the brush axis one radius away, its
// corners are equidistant from the center, its plane is perpendicular to
// the brush direction, and the plane queries agree with it.
func checkResponses(quad messages.BrushQuadResponse, segment messages.SegmentPlaneResponse, classify messages.ClassifyPointResponse) error {
	q := quad.Quad.ToGeom()
	center := q.Center()

	if !center.EqualWithEpsilon(geom.Point3{Y: 1}, (float64)(geom.EQUALITY_EPSILON)) {
		return errors.New("quad center is off the brush axis").
			WithTag("center", center)
	}

	direction := geom.Vector3{Y: 1}
	first := (float32)(q[0].Sub(center).Length())
	for _, corner := range q {
		dist := (float32)(corner.Sub(center).Length())
		if !geom.EqualWithEpsilon(dist, first, (float64)(geom.EQUALITY_EPSILON)) {
			return errors.New("quad corners are not equidistant from the center").
				WithTag("first_distance", first).
				WithTag("distance", dist)
		}

		if !geom.EqualWithEpsilon(corner.Sub(center).Dot(direction), 0, (float64)(geom.EQUALITY_EPSILON)) {
			return errors.New("quad is not perpendicular to the brush direction").
				WithTag("corner", corner)
		}
	}

	if segment.Kind != geom.SegmentPlaneIntersects || segment.Point == nil {
		return errors.New("segment does not cross the brush plane").
			WithTag("kind", segment.Kind)
	}
	if !segment.Point.ToGeom().EqualWithEpsilon(geom.Point3{Y: 1}, (float64)(geom.EQUALITY_EPSILON)) {
		return errors.New("segment crossing is off the brush plane").
			WithTag("point", *segment.Point)
	}

	if classify.Side != geom.PointSideCoincident {
		return errors.New("brush plane point is not classified as coincident").
			WithTag("side", classify.Side)
	}

	return nil
}

func dial(opts RunSmokeTestOptions) (*websocket.Conn, error) {
	endpoint := strings.ReplaceAll(opts.ToEndpoint, "https://", "wss://")
	endpoint = strings.ReplaceAll(endpoint, "http://", "ws://")

	origin := opts.FromEndpoint
	if origin == "" {
		origin = "http://localhost"
	}

	config, err := websocket.NewConfig(endpoint, origin)
	if err != nil {
		return nil, errors.New("initializing web socket config failed").Wrap(err)
	}
	if opts.UserAgent != "" {
		config.Header.Set("User-Agent", opts.UserAgent)
	}

	return websocket.DialConfig(config)
}
