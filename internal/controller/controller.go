package controller

import "github.com/gofiber/fiber/v2"

const workspaceHeader = "X-Workspace-Id"

// workspaceID scopes every request to one workspace's store. Single-user
// deployments never send the header and share the default workspace.
func workspaceID(ctx *fiber.Ctx) string {
	if id := ctx.Get(workspaceHeader); id != "" {
		return id
	}
	return "default"
}
