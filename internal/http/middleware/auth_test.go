package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"guardpost.app/registry/internal/http/middleware"
	"guardpost.app/registry/internal/model"
	"guardpost.app/registry/internal/service"
)

type stubValidator struct {
	validateFn func(ctx context.Context, token string) (*model.User, *model.Session, error)
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (*model.User, *model.Session, error) {
	return s.validateFn(ctx, token)
}

var _ = Describe("RequireAuth", func() {
	var (
		router    *gin.Engine
		validator *stubValidator
		seenUser  *model.User
		seenSess  *model.Session
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		seenUser, seenSess = nil, nil
		validator = &stubValidator{
			validateFn: func(_ context.Context, token string) (*model.User, *model.Session, error) {
				if token == "live" {
					return &model.User{ID: 3}, &model.Session{ID: 4, UserID: 3}, nil
				}
				return nil, nil, service.ErrSessionExpired
			},
		}

		router = gin.New()
		router.GET("/private", middleware.RequireAuth(validator), func(c *gin.Context) {
			seenUser = middleware.GetUser(c.Request.Context())
			seenSess = middleware.GetSession(c.Request.Context())
			c.Status(http.StatusNoContent)
		})
	})

	serve := func(authorization string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("passes the user and session to the handler", func() {
		w := serve("Bearer live")
		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(seenUser.ID).To(Equal(int64(3)))
		Expect(seenSess.ID).To(Equal(int64(4)))
	})

	It("accepts a lower-case scheme", func() {
		Expect(serve("bearer live").Code).To(Equal(http.StatusNoContent))
	})

	DescribeTable("rejects missing or malformed credentials",
		func(header string) {
			w := serve(header)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("not authenticated"))
			Expect(seenUser).To(BeNil())
		},
		Entry("no header", ""),
		Entry("basic scheme", "Basic dXNlcjpwYXNz"),
		Entry("empty bearer", "Bearer "),
	)

	It("reports an expired session", func() {
		w := serve("Bearer stale")
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("session expired"))
	})

	It("returns 500 when validation itself fails", func() {
		validator.validateFn = func(context.Context, string) (*model.User, *model.Session, error) {
			return nil, nil, errors.New("db down")
		}
		Expect(serve("Bearer live").Code).To(Equal(http.StatusInternalServerError))
	})
})

var _ = Describe("Recovery", func() {
	It("turns a panic into a 500", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(middleware.Recovery(), middleware.Logger())
		router.GET("/boom", func(*gin.Context) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("internal server error"))
	})
})
