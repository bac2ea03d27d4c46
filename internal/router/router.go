// Package router assembles the gin engine: ambient middleware, guard chains and routes.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/api/swagger"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/handler"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/middleware"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/service"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/logger"
	corsmiddleware "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/middleware/cors"
	reqidmiddleware "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/middleware/requestid"
)

// Options carries the cross-cutting settings of the engine.
type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	EnableDocs     bool
}

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Classes    *handler.ClassHandler
	Enrollment *handler.EnrollmentHandler
	Payments   *handler.PaymentHandler
	Metrics    *handler.MetricsHandler
}

// New builds the engine. Every dashboard route authenticates first so storage is never touched for
// an anonymous caller; role guards then run against the caller's stored role.
func New(gate *authz.Gate, h Handlers, metrics *service.MetricsService, log *zap.Logger, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authenticated := gate.Authenticated()
	selfReject := authz.SelfMatch(authz.MismatchReject)
	selfDegrade := authz.SelfMatch(authz.MismatchDegrade)

	r.POST("/jwt", h.Auth.Issue)
	r.GET("/classes", h.Classes.ListClasses)
	r.GET("/instructors", h.Classes.ListInstructors)

	users := r.Group("/users")
	users.POST("", h.Users.Register)
	users.GET("", middleware.Guard(authenticated, selfReject), h.Users.Get)
	users.GET("/user/:email", middleware.Guard(authenticated, selfDegrade), h.Users.IsUser)
	users.GET("/instructor/:email", middleware.Guard(authenticated, selfDegrade), h.Users.IsInstructor)
	users.GET("/admin/:email", middleware.Guard(authenticated, selfDegrade), h.Users.IsAdmin)

	student := r.Group("/dashboard/user", middleware.Guard(authenticated, gate.PlainUser(), selfReject))
	student.GET("/selected-classes", h.Enrollment.ListSelected)
	student.POST("/selected-classes", h.Enrollment.Select)
	student.DELETE("/selected-classes/:id", h.Enrollment.Delete)
	student.GET("/enrolled-classes", h.Enrollment.ListEnrolled)
	student.POST("/payment-intent", h.Payments.CreateIntent)
	student.POST("/payments", h.Payments.Complete)
	student.GET("/payments", h.Payments.List)
	student.GET("/payments/export", h.Payments.Export)

	instructor := r.Group("/dashboard/instructor", middleware.Guard(authenticated, gate.Instructor(), selfReject))
	instructor.POST("/classes", h.Classes.CreateClass)
	instructor.GET("/classes", h.Classes.ListOwnClasses)

	admin := r.Group("/dashboard/admin", middleware.Guard(authenticated, gate.Admin()))
	admin.GET("/users", h.Users.List)
	admin.PATCH("/users/:id/role", middleware.Audit(log, "user.role"), h.Users.UpdateRole)
	admin.GET("/classes", h.Classes.ListAllClasses)
	admin.PATCH("/classes/:id/status", middleware.Audit(log, "class.status"), h.Classes.UpdateStatus)
	admin.PATCH("/classes/:id/feedback", middleware.Audit(log, "class.feedback"), h.Classes.SetFeedback)

	return r
}
