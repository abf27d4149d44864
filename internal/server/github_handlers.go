package server

import (
	"fmt"
	"net/url"
	"regexp"

	"devconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GitHub usernames: alphanumerics and hyphens, max 39 characters.
var githubUsernameRe = regexp.MustCompile(`^[a-zA-Z0-9-]{1,39}$`)

// GetGithubRepos handles GET /api/profiles/github/:username, proxying
// the user's five most recent public repositories from the GitHub API.
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if !githubUsernameRe.MatchString(username) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid GitHub username"))
	}

	target := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=desc",
		s.config.GithubAPIBaseURL, url.PathEscape(username))

	agent := fiber.Get(target)
	agent.Set("User-Agent", "devconnect-api")
	agent.Set("Accept", "application/vnd.github.v3+json")

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewStoreError(errs[0]))
	}
	if statusCode == fiber.StatusNotFound {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("GitHub user", username))
	}
	if statusCode != fiber.StatusOK {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewStoreError(fmt.Errorf("github API returned status %d", statusCode)))
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
