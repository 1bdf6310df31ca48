package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// subjectID extracts the authenticated caller's ID set by the JWT middleware.
// A missing or malformed subject aborts with 401.
func subjectID(c *gin.Context) (primitive.ObjectID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return primitive.NilObjectID, false
	}
	hex, ok := raw.(string)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid identity token"})
		return primitive.NilObjectID, false
	}
	return id, true
}
