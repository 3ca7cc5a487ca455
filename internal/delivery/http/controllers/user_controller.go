package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"youthevents/internal/delivery/http/helpers"
	"youthevents/internal/domain"
)

// AssignRoleRequest is the request body for POST /users/{id}/roles.
type AssignRoleRequest struct {
	Role string `json:"role" example:"TEAM_COACH"`
}

// Validate implements Validator.
func (req AssignRoleRequest) Validate() []string {
	if !domain.TeamRole(req.Role).Valid() {
		return []string{"role must be one of TEAM_FUNDRAISING, TEAM_SOCIAL_MEDIA, TEAM_COACH, TEAM_EVENT_COORDINATION"}
	}
	return nil
}

// UserResponse is a user together with its team roles.
type UserResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"displayName"`
	UserType    domain.UserType   `json:"userType"`
	Roles       []domain.TeamRole `json:"roles"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func newUserResponse(u *domain.UserWithRoles) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []domain.TeamRole{}
	}
	return UserResponse{
		ID:          u.User.ID,
		Email:       u.User.Email,
		DisplayName: u.User.DisplayName,
		UserType:    u.User.Type,
		Roles:       roles,
		CreatedAt:   u.User.CreatedAt,
	}
}

// UserSuccessResponse is the success envelope for user endpoints.
type UserSuccessResponse struct {
	Data  UserResponse      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Sync godoc
// @Summary Sync the caller into the user store
// @Description Creates the user for the verified identity on first call and returns it. Later calls return the stored user.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/sync [post]
func (c *UserController) Sync(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	u, created, err := c.Service.Sync(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	if created {
		c.Logger.InfoContext(r.Context(), "user synced for the first time", "user_id", u.User.ID)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newUserResponse(u))
}

// GetMe godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/me [get]
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	u, err := c.Service.GetMe(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newUserResponse(u))
}

// AssignRole godoc
// @Summary Assign a team role to a user
// @Description Adds a team role to the user. Assigning a role the user already holds is a no-op. Administrators only.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID (UUID)"
// @Param role body AssignRoleRequest true "Team role"
// @Success 200 {object} controllers.UserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/{id}/roles [post]
func (c *UserController) AssignRole(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req AssignRoleRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.Service.AssignTeamRole(r.Context(), identity, id, domain.TeamRole(req.Role))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newUserResponse(u))
}
