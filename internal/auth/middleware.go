package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity is the acting user attached to a request after the gate passes.
type Identity struct {
	ID        string
	Name      string
	Email     string
	CollegeID string
	Role      string
}

// IdentityStore resolves a token subject against the table its role names.
type IdentityStore interface {
	ResolveAdmin(ctx context.Context, id string) (*Identity, error)
	ResolveStudent(ctx context.Context, id string) (*Identity, error)
}

// Gate enforces bearer JWT tokens signed with HS256 and verifies the
// subject still exists before letting the request through.
type Gate struct {
	signingKey string
	issuer     string
	store      IdentityStore
}

// NewGate creates a gate backed by the given identity store.
func NewGate(signingKey, issuer string, store IdentityStore) *Gate {
	return &Gate{signingKey: signingKey, issuer: issuer, store: store}
}

const identityKey = "identity"

// CurrentIdentity returns the identity set by a gate, or nil.
func CurrentIdentity(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}

// RequireAdmin admits only admin tokens.
func (g *Gate) RequireAdmin() gin.HandlerFunc {
	return g.require(RoleAdmin)
}

// RequireStudent admits only student tokens.
func (g *Gate) RequireStudent() gin.HandlerFunc {
	return g.require(RoleStudent)
}

// RequireUser admits any valid token, admin or student.
func (g *Gate) RequireUser() gin.HandlerFunc {
	return g.require("")
}

func (g *Gate) require(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := g.parseBearer(c)
		if !ok {
			return
		}
		if role != "" && claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied: " + role + " privileges required"})
			return
		}

		var (
			ident *Identity
			err   error
		)
		switch claims.Role {
		case RoleAdmin:
			ident, err = g.store.ResolveAdmin(c.Request.Context(), claims.Subject)
		case RoleStudent:
			ident, err = g.store.ResolveStudent(c.Request.Context(), claims.Subject)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "identity lookup failed"})
			return
		}
		if ident == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token: user not found"})
			return
		}
		ident.Role = claims.Role
		c.Set(identityKey, ident)
		c.Next()
	}
}

func (g *Gate) parseBearer(c *gin.Context) (Claims, bool) {
	authz := c.GetHeader("Authorization")
	if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "access denied: no token provided"})
		return Claims{}, false
	}
	tokenStr := strings.TrimSpace(authz[len("bearer "):])
	claims, err := Parse(tokenStr, g.signingKey, g.issuer)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return Claims{}, false
	}
	return claims, true
}
