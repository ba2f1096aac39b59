package schemas

import (
	"regexp"

	v "github.com/Gobd/apicontract"
)

var (
	upper = regexp.MustCompile(`[A-Z]`)
	lower = regexp.MustCompile(`[a-z]`)
	digit = regexp.MustCompile(`[0-9]`)
)

var (
	CreateUserInput = reg.Register("CreateUserInput", v.Object(
		v.Field("email", v.String(v.Message("Invalid email address", v.Email), v.Example("user@example.com"))),
		v.Field("name", v.String(
			v.Message("Name must be at least 2 characters", v.MinLength(2)),
			v.MaxLength(100),
		)),
		v.Field("password", v.String(
			v.Message("Password must be at least 8 characters", v.MinLength(8)),
			v.Message("Password must contain at least one uppercase letter", v.Match(upper)),
			v.Message("Password must contain at least one lowercase letter", v.Match(lower)),
			v.Message("Password must contain at least one number", v.Match(digit)),
		)),
	))

	UpdateUserInput = reg.Register("UpdateUserInput", v.Partial(v.Pick(CreateUserInput, "name", "email")))

	LoginInput = reg.Register("LoginInput", v.Object(
		v.Field("email", v.String(v.Message("Invalid email address", v.Email))),
		v.Field("password", v.String(v.Message("Password is required", v.MinLength(1)))),
	))

	UserResponse = reg.Register("UserResponse", v.Object(
		v.Field("id", v.String(v.UUID)),
		v.Field("email", v.String(v.Email)),
		v.Field("name", v.String()),
		v.Field("createdAt", v.Date()),
		v.Field("updatedAt", v.Date()),
	))

	AuthResponse = reg.Register("AuthResponse", v.Object(
		v.Field("user", UserResponse),
		v.Field("accessToken", v.String()),
	))

	PaginatedUsers = reg.Register("PaginatedUsers", Paginated(UserResponse))
)
