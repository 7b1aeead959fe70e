package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// CourseController handles the course catalogue and section offerings
type CourseController struct {
	courseService *services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// CreateCourse adds a catalogue entry
// @Summary Create a course
// @Description Creates a course with optional prerequisite courses
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created"
// @Failure 404 {object} dto.ErrorResponse "Department or prerequisite not found"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	course, err := c.courseService.CreateCourse(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, course)
}

// GetCourse retrieves a course with its prerequisites
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, course)
}

// ListCourses retrieves the catalogue
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Filter by department"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Courses"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	courses, pagination, err := c.courseService.ListCourses(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "departmentId"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, courses, pagination)
}

// CreateSection opens a course offering for a semester
// @Summary Create a section
// @Description Opens a numbered section of a course for a semester with an instructor and capacity
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section"
// @Success 201 {object} dto.APIResponse{data=models.Section} "Section created"
// @Failure 400 {object} dto.ErrorResponse "Assigned user is not an instructor"
// @Failure 404 {object} dto.ErrorResponse "Course or semester not found"
// @Failure 409 {object} dto.ErrorResponse "Section number already exists"
// @Router /sections [post]
func (c *CourseController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	section, err := c.courseService.CreateSection(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, section)
}

// GetSection retrieves a section with its enrolled count
// @Summary Get section by ID
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=models.Section} "Section"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{sectionId} [get]
func (c *CourseController) GetSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	section, err := c.courseService.GetSection(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, section)
}

// ListSections retrieves sections with optional filters
// @Summary List sections
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param semesterId query int false "Filter by semester"
// @Param courseId query int false "Filter by course"
// @Success 200 {object} dto.APIResponse{data=[]models.Section} "Sections"
// @Router /sections [get]
func (c *CourseController) ListSections(ctx *gin.Context) {
	sections, err := c.courseService.ListSections(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "semesterId"), queryID(ctx, "courseId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, sections)
}

// ListMySections retrieves the calling instructor's sections
// @Summary List own teaching sections
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param semesterId query int false "Filter by semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Section} "Sections"
// @Router /sections/mine [get]
func (c *CourseController) ListMySections(ctx *gin.Context) {
	sections, err := c.courseService.ListInstructorSections(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "semesterId"), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, sections)
}
