package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
)

// EmployeeHandler serves the HR module.
type EmployeeHandler struct {
	employees *services.EmployeeService
}

func NewEmployeeHandler(employees *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employees: employees}
}

func (h *EmployeeHandler) Hire(c *gin.Context) {
	var req services.EmployeeRequest
	if !BindJSON(c, &req) {
		return
	}
	employee, err := h.employees.Hire(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "employee", "Employee hired", employee)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "employee", employee)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	employees, err := h.employees.List(c.Request.Context(), c.Query("department"), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "employees", employees)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if !BindJSON(c, &updates) {
		return
	}
	if err := h.employees.Update(c.Request.Context(), c.Param("id"), updates); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Employee updated")
}

// Terminate handles POST /api/employees/:id/terminate
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	if err := h.employees.Terminate(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Employee terminated")
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Employee deleted")
}

// GetHeadcount handles GET /api/employees/headcount
func (h *EmployeeHandler) GetHeadcount(c *gin.Context) {
	headcount, err := h.employees.Headcount(c.Request.Context())
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "headcount", headcount)
}
