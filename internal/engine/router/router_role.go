package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/internal/engine/consts"
	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/pkg/bizerr"
)

type roleIdReq struct {
	RoleId uint64 `json:"roleId"`
}

func (rt *Router) roleRouter(r fiber.Router) {
	roleGroup := r.Group("/role")
	{
		roleGroup.Post("/add", rt.addRole)              // POST /role/add - create a role
		roleGroup.Get("/list", rt.listRoles)            // GET /role/list - all roles with button permissions
		roleGroup.Put("/set", rt.setRole)               // PUT /role/set - update a role and replace its permissions
		roleGroup.Delete("/delete", rt.deleteRole)      // DELETE /role/delete?roleId= - delete a role, users move to the default role
		roleGroup.Put("/setDefault", rt.setDefaultRole) // PUT /role/setDefault - make a role the default
		roleGroup.Get("/selectUse", rt.roleSelectUse)   // GET /role/selectUse - role options
		roleGroup.Get("/default", rt.getDefaultRole)    // GET /role/default - the default role
		roleGroup.Get("/:roleId", rt.getRole)           // GET /role/:roleId - role details with all permissions
	}
}

// addRole creates a role. The operator comes from the X-User-Id header.
func (rt *Router) addRole(c *fiber.Ctx) error {
	var creatorId uint64
	if header := c.Get(consts.HeaderUserId); header != "" {
		id, ok := parseUint(header)
		if !ok {
			return badRequest(c)
		}
		creatorId = id
	}

	var req model.AddRoleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	role, err := rt.Services.Role.Add(c.UserContext(), &req, creatorId)
	if err != nil {
		return err
	}

	c.Locals(consts.DETAIL, role)
	return nil
}

func (rt *Router) listRoles(c *fiber.Ctx) error {
	roles, err := rt.Services.Role.List(c.UserContext())
	if err != nil {
		return err
	}

	c.Locals(consts.DETAIL, roles)
	return nil
}

func (rt *Router) setRole(c *fiber.Ctx) error {
	var req model.SetRoleReq
	if err := c.BodyParser(&req); err != nil || req.RoleId == 0 {
		return badRequest(c)
	}

	if err := rt.Services.Role.SetRole(c.UserContext(), &req); err != nil {
		return err
	}

	c.Locals(consts.OPERATION, "set role")
	return nil
}

func (rt *Router) deleteRole(c *fiber.Ctx) error {
	roleId, ok := parseUint(c.Query("roleId"))
	if !ok {
		return badRequest(c)
	}

	if err := rt.Services.Role.Delete(c.UserContext(), roleId); err != nil {
		return err
	}

	c.Locals(consts.OPERATION, "delete role")
	return nil
}

func (rt *Router) setDefaultRole(c *fiber.Ctx) error {
	var req roleIdReq
	if err := c.BodyParser(&req); err != nil || req.RoleId == 0 {
		return badRequest(c)
	}

	if err := rt.Services.Role.SetDefault(c.UserContext(), req.RoleId); err != nil {
		return err
	}

	c.Locals(consts.OPERATION, "set default role")
	return nil
}

func (rt *Router) roleSelectUse(c *fiber.Ctx) error {
	options, err := rt.Services.Role.RoleSelectUse(c.UserContext())
	if err != nil {
		return err
	}

	c.Locals(consts.DETAIL, options)
	return nil
}

func (rt *Router) getDefaultRole(c *fiber.Ctx) error {
	role, err := rt.Services.Role.SelectDefaultRole(c.UserContext())
	if err != nil {
		return err
	}

	// detail is null when no default role is set
	c.Locals(consts.DETAIL, role)
	return nil
}

func (rt *Router) getRole(c *fiber.Ctx) error {
	roleId, ok := parseUint(c.Params("roleId"))
	if !ok {
		return badRequest(c)
	}

	role, err := rt.Services.Role.SelectById(c.UserContext(), roleId)
	if err != nil {
		return err
	}
	if role == nil {
		return bizerr.NotFound(bizerr.KeyRoleNotExist)
	}

	permIds, err := rt.Services.Role.RolePermIds(c.UserContext(), roleId)
	if err != nil {
		return err
	}

	c.Locals(consts.DETAIL, model.RoleView{
		Role:     *role,
		BanEmail: role.BanEmails(),
		PermIds:  permIds,
	})
	return nil
}
