package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// 客户端传入的请求id最大长度
const maxRequestIDLen = 64

// 只接受字母、数字与 - _ . 组成的id
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}

// 生成或沿用请求id，写入响应头与context
// 不合法的id直接替换为新生成的id
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if !validRequestID(id) {
			id = "req_" + uuid.New().String()[:22]
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// 访问日志
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithField("request_id", getRequestID(r.Context())).Debugf(
			"%s %s %d %v", r.Method, r.URL.Path, ww.Status(), time.Since(start),
		)
	})
}

// 组装HTTP入口：connect服务、REST接口与健康检查
// ratePerMinute <= 0 时不限流
func NewHTTPHandler(s *RouteServer, ratePerMinute int) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(accessLog)

	r.Get("/healthz", s.healthz)
	r.Group(func(r chi.Router) {
		if ratePerMinute > 0 {
			r.Use(httprate.Limit(
				ratePerMinute,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
			))
		}
		r.Post("/v1/trips", s.postTrip)
		path, handler := NewRouteServiceHandler(s)
		r.Mount(path, handler)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to write response: %v", err)
	}
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := connect.CodeInternal, err.Error()
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		code, msg = connectErr.Code(), connectErr.Message()
	}
	writeJSON(w, httpStatus(code), errorBody{
		Code:      code.String(),
		Message:   msg,
		RequestID: getRequestID(r.Context()),
	})
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeFailedPrecondition:
		return http.StatusUnprocessableEntity
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *RouteServer) postTrip(w http.ResponseWriter, r *http.Request) {
	var in GetTripRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, connect.NewError(connect.CodeInvalidArgument, err))
		return
	}
	res, err := s.planTrip(r.Context(), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type healthBody struct {
	Status    string `json:"status"`
	Floors    int    `json:"floors"`
	Suspended bool   `json:"suspended"`
}

func (s *RouteServer) healthz(w http.ResponseWriter, r *http.Request) {
	body := healthBody{Status: "ok", Floors: s.FloorCount(), Suspended: s.Suspended()}
	status := http.StatusOK
	if body.Suspended {
		body.Status = "suspended"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, body)
}
