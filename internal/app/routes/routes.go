package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/controllers"
	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	tenantController *controllers.TenantController,
	admissionController *controllers.AdmissionController,
	academicController *controllers.AcademicController,
	studentController *controllers.StudentController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	gradeController *controllers.GradeController,
	scheduleController *controllers.ScheduleController,
	attendanceController *controllers.AttendanceController,
	financeController *controllers.FinanceController,
	payrollController *controllers.PayrollController,
	notificationController *controllers.NotificationController,
	libraryController *controllers.LibraryController,
	hrController *controllers.HRController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// Applicants submit without an account
	v1.POST("/admissions/applications", admissionController.Submit)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.POST("/auth/change-password", authController.ChangePassword)

		// Tenant administration (platform admins only)
		tenants := authenticated.Group("/tenants")
		tenants.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			tenants.POST("", tenantController.Create)
			tenants.GET("", tenantController.List)
			tenants.GET("/:id", tenantController.Get)
			tenants.PUT("/:id/active", tenantController.SetActive)
		}

		// Admissions review
		admissions := authenticated.Group("/admissions/applications")
		admissions.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
		{
			admissions.GET("", admissionController.List)
			admissions.GET("/:id", admissionController.Get)
			admissions.PUT("/:id/decision", admissionController.Decide)
		}

		// Academic calendar and departments
		authenticated.GET("/academic-years", academicController.ListAcademicYears)
		authenticated.GET("/semesters", academicController.ListSemesters)
		authenticated.GET("/semesters/current", academicController.CurrentSemester)
		authenticated.GET("/departments", academicController.ListDepartments)

		academicProtected := authenticated.Group("")
		academicProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
		{
			academicProtected.POST("/academic-years", academicController.CreateAcademicYear)
			academicProtected.PUT("/academic-years/:id/current", academicController.SetCurrentAcademicYear)
			academicProtected.POST("/semesters", academicController.CreateSemester)
			academicProtected.POST("/registration-periods", academicController.CreateRegistrationPeriod)
			academicProtected.POST("/departments", academicController.CreateDepartment)
		}

		// Student records
		students := authenticated.Group("/students")
		{
			students.GET("/me", studentController.GetMe)
			students.GET("/me/transcript", gradeController.MyTranscript)
			students.GET("/me/timetable", scheduleController.MyTimetable)
			students.GET("/:studentId/enrollments", enrollmentController.ListForStudent)

			studentsRegistrarProtected := students.Group("")
			studentsRegistrarProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
			{
				studentsRegistrarProtected.GET("", studentController.List)
				studentsRegistrarProtected.GET("/:studentId", studentController.Get)
				studentsRegistrarProtected.PUT("/:studentId/standing", studentController.UpdateStanding)
				studentsRegistrarProtected.GET("/:studentId/transcript", gradeController.Transcript)
			}
		}

		// Course catalog and sections
		authenticated.GET("/courses", courseController.ListCourses)
		authenticated.GET("/courses/:id", courseController.GetCourse)

		coursesProtected := authenticated.Group("/courses")
		coursesProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
		{
			coursesProtected.POST("", courseController.CreateCourse)
		}

		sections := authenticated.Group("/sections")
		{
			sections.GET("", courseController.ListSections)
			sections.GET("/mine", courseController.ListMySections)
			sections.GET("/:sectionId", courseController.GetSection)
			sections.GET("/:sectionId/timetable", scheduleController.SectionTimetable)

			sectionsRegistrarProtected := sections.Group("")
			sectionsRegistrarProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
			{
				sectionsRegistrarProtected.POST("", courseController.CreateSection)
				sectionsRegistrarProtected.GET("/:sectionId/enrollments", enrollmentController.ListForSection)
			}

			// Instructor-only routes for grading and attendance
			sectionsInstructorProtected := sections.Group("")
			sectionsInstructorProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleInstructor))
			{
				sectionsInstructorProtected.POST("/:sectionId/grade-components", gradeController.AddComponent)
				sectionsInstructorProtected.GET("/:sectionId/grade-components", gradeController.ListComponents)
				sectionsInstructorProtected.POST("/:sectionId/finalize", gradeController.FinalizeSection)
				sectionsInstructorProtected.POST("/:sectionId/attendance", attendanceController.BulkRecord)
				sectionsInstructorProtected.GET("/:sectionId/attendance/report", attendanceController.SectionReport)
				sectionsInstructorProtected.POST("/:sectionId/attendance/notify", attendanceController.NotifyFlagged)
			}
		}

		gradeComponents := authenticated.Group("/grade-components")
		gradeComponents.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleInstructor))
		{
			gradeComponents.PUT("/:componentId/entries", gradeController.RecordGrade)
		}

		// Enrollment (students enroll themselves, registrars act for anyone)
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.DELETE("/:id", enrollmentController.Drop)
			enrollments.GET("/:enrollmentId/attendance", attendanceController.ListForEnrollment)
		}

		// Rooms and scheduling
		authenticated.GET("/rooms", scheduleController.ListRooms)
		authenticated.GET("/rooms/:roomId/timetable", scheduleController.RoomTimetable)

		scheduleProtected := authenticated.Group("")
		scheduleProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleRegistrar))
		{
			scheduleProtected.POST("/rooms", scheduleController.CreateRoom)
			scheduleProtected.POST("/schedule-slots", scheduleController.CreateSlot)
			scheduleProtected.DELETE("/schedule-slots/:id", scheduleController.DeleteSlot)
		}

		// Finance routes (accountants only)
		financeProtected := authenticated.Group("")
		financeProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleAccountant))
		{
			financeProtected.POST("/fee-schedules", financeController.CreateFeeSchedule)
			financeProtected.POST("/invoices", financeController.IssueInvoice)
			financeProtected.GET("/invoices", financeController.ListInvoices)
			financeProtected.GET("/invoices/:id", financeController.GetInvoice)
			financeProtected.POST("/invoices/:id/payments", financeController.RecordPayment)
			financeProtected.GET("/invoices/:id/payments", financeController.ListPayments)
			financeProtected.POST("/payments/:id/void", financeController.VoidPayment)
			financeProtected.GET("/finance/collection-report", financeController.CollectionReport)

			financeProtected.POST("/payroll/runs", payrollController.CreateRun)
			financeProtected.GET("/payroll/runs", payrollController.ListRuns)
			financeProtected.GET("/payroll/runs/:id", payrollController.GetRun)
			financeProtected.POST("/payroll/runs/:id/finalize", payrollController.FinalizeRun)
		}

		// Notifications (all authenticated users)
		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.PUT("/:id/read", notificationController.MarkRead)
			notifications.GET("/preferences", notificationController.ListPreferences)
			notifications.PUT("/preferences", notificationController.UpdatePreference)
		}

		// Library routes
		library := authenticated.Group("/library")
		{
			library.GET("/books", libraryController.SearchBooks)
			library.GET("/books/:id", libraryController.GetBook)
			library.GET("/loans/mine", libraryController.MyLoans)

			libraryLibrarianProtected := library.Group("")
			libraryLibrarianProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleLibrarian))
			{
				libraryLibrarianProtected.POST("/books", libraryController.AddBook)
				libraryLibrarianProtected.POST("/loans", libraryController.Borrow)
				libraryLibrarianProtected.POST("/loans/:id/return", libraryController.Return)
				libraryLibrarianProtected.GET("/members/:memberId/loans", libraryController.ListMemberLoans)
			}
		}

		// HR routes
		hr := authenticated.Group("/hr")
		{
			// Any staff member files and cancels their own requests
			hr.POST("/leave-requests", hrController.RequestLeave)
			hr.POST("/leave-requests/:id/cancel", hrController.CancelLeave)
			hr.GET("/leave-types", hrController.ListLeaveTypes)

			hrProtected := hr.Group("")
			hrProtected.Use(authMiddleware.RoleRequired(models.RoleAdmin, models.RoleHR))
			{
				hrProtected.POST("/employees", hrController.CreateEmployee)
				hrProtected.GET("/employees", hrController.ListEmployees)
				hrProtected.GET("/employees/:employeeId", hrController.GetEmployee)
				hrProtected.GET("/employees/:employeeId/leave-balance", hrController.Balance)
				hrProtected.POST("/leave-types", hrController.CreateLeaveType)
				hrProtected.GET("/leave-requests", hrController.ListLeaveRequests)
				hrProtected.PUT("/leave-requests/:id/decision", hrController.DecideLeave)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
