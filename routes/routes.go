package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/changhyun152521/tbc-sub001/config"
	"github.com/changhyun152521/tbc-sub001/handlers"
	"github.com/changhyun152521/tbc-sub001/middlewares"
	"github.com/changhyun152521/tbc-sub001/models"
	"github.com/changhyun152521/tbc-sub001/stats"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, cache *stats.SummaryCache) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	academy := handlers.NewAcademyHandler()
	tch := handlers.NewTeacherHandler()
	std := handlers.NewStudentHandler()
	cls := handlers.NewClassHandler()
	lsn := handlers.NewLessonHandler()
	tst := handlers.NewTestHandler()
	st := handlers.NewStatsHandler(cache)

	// ===== Public =====
	e.GET("/healthz", handlers.Health)
	e.POST("/auth/login", auth.Login)
	e.POST("/auth/register-parent", auth.RegisterParent)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// Any authenticated role
	e.PUT("/profile/password", auth.ChangePassword, authMW)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole(models.RoleAdmin))

	admin.GET("/academy", academy.Get)
	admin.PUT("/academy", academy.Upsert)

	admin.GET("/users", auth.ListUsers)
	admin.POST("/users", auth.CreateUser)

	admin.GET("/teachers", tch.List)
	admin.POST("/teachers", tch.Create)
	admin.PUT("/teachers/:id", tch.Update)
	admin.DELETE("/teachers/:id", tch.Delete)

	admin.GET("/students", std.List)
	admin.POST("/students", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)

	admin.GET("/classes", cls.List)
	admin.POST("/classes", cls.Create)
	admin.PUT("/classes/:id", cls.Update)
	admin.DELETE("/classes/:id", cls.Delete)
	admin.POST("/classes/:id/students", cls.AddStudent)
	admin.DELETE("/classes/:id/students/:sid", cls.RemoveStudent)
	admin.POST("/classes/:id/teachers", cls.AddTeacher)
	admin.DELETE("/classes/:id/teachers/:tid", cls.RemoveTeacher)

	// ===== Teacher (admins pass too) =====
	teacher := e.Group("/teacher", authMW, middlewares.RequireRole(models.RoleTeacher, models.RoleAdmin))

	teacher.GET("/classes", cls.ListMine)
	teacher.GET("/students", std.List)

	teacher.POST("/lesson-days", lsn.Create)
	teacher.GET("/lesson-days", lsn.List)
	teacher.GET("/lesson-days/:id", lsn.Get)
	teacher.DELETE("/lesson-days/:id", lsn.Delete)
	teacher.POST("/lesson-days/:id/periods", lsn.AddPeriod)
	teacher.PUT("/lesson-days/:id/periods/:index", lsn.UpdatePeriod)
	teacher.DELETE("/lesson-days/:id/periods/:index", lsn.RemovePeriod)

	teacher.GET("/tests", tst.List)
	teacher.POST("/tests", tst.Create)
	teacher.PUT("/tests/:id", tst.Update)
	teacher.DELETE("/tests/:id", tst.Delete)
	teacher.GET("/tests/:id/stats", tst.Stats)

	teacher.GET("/classes/:id/students/:sid/summary", st.TeacherSummary)
	teacher.GET("/classes/:id/students/:sid/lessons", st.TeacherLessons)
	teacher.GET("/classes/:id/students/:sid/monthly", st.TeacherMonthly)

	// ===== Student =====
	student := e.Group("/student", authMW, middlewares.RequireRole(models.RoleStudent))
	student.GET("/summary", st.MySummary)
	student.GET("/lessons", st.MyLessons)
	student.GET("/monthly", st.MyMonthly)

	// ===== Parent (same views, scoped to the linked student) =====
	parent := e.Group("/parent", authMW, middlewares.RequireRole(models.RoleParent))
	parent.GET("/summary", st.MySummary)
	parent.GET("/lessons", st.MyLessons)
	parent.GET("/monthly", st.MyMonthly)
}
