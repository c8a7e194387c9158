package emulator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/pkg/response"
)

const (
	maxWatchTimeout     = 60 * time.Second
	defaultWatchTimeout = 25 * time.Second

	uidKey = "uid"
)

var errUnknownDocument = errors.New("no such document")

// authRequired verifies the bearer ID token and records the uid for
// the handler.
func (srv *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		uid, err := srv.verifyIDToken(raw)
		if err != nil {
			srv.l.Debugf(c.Request.Context(), "emulator: rejected token: %v", err)
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set(uidKey, uid)
		c.Next()
	}
}

func callerUID(c *gin.Context) string {
	return c.GetString(uidKey)
}

// readDocument reads the request body and checks the caller owns it.
// Documents without an ownerId are rejected rather than stored as
// orphans nobody can watch.
func readDocument(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, err, nil)
		return nil, false
	}

	var fields docFields
	if err := json.Unmarshal(body, &fields); err != nil {
		response.Error(c, err, nil)
		return nil, false
	}
	if fields.OwnerID == "" {
		response.Error(c, errors.New("document has no ownerId"), nil)
		return nil, false
	}
	if fields.OwnerID != callerUID(c) {
		response.Forbidden(c)
		return nil, false
	}
	return body, true
}

func (srv *Server) handleAddDocument(c *gin.Context) {
	body, ok := readDocument(c)
	if !ok {
		return
	}

	id := srv.store.Add(c.Param("collection"), body)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (srv *Server) handleSetDocument(c *gin.Context) {
	coll := c.Param("collection")
	id := c.Param("id")

	// An existing document may only be overwritten by its owner.
	if owner, ok := srv.store.Owner(coll, id); ok && owner != callerUID(c) {
		response.Forbidden(c)
		return
	}

	body, ok := readDocument(c)
	if !ok {
		return
	}
	srv.store.Set(coll, id, body)
	response.OK(c, nil)
}

func (srv *Server) handleDeleteDocument(c *gin.Context) {
	coll := c.Param("collection")
	id := c.Param("id")

	owner, ok := srv.store.Owner(coll, id)
	if !ok {
		response.NotFound(c, errUnknownDocument)
		return
	}
	if owner != callerUID(c) {
		response.Forbidden(c)
		return
	}

	srv.store.Delete(coll, id)
	response.OK(c, nil)
}

// handleWatch is the long-poll endpoint. The caller may only watch its
// own documents.
func (srv *Server) handleWatch(c *gin.Context) {
	ownerID := c.Query("ownerId")
	if ownerID == "" {
		response.Error(c, errors.New("ownerId is required"), nil)
		return
	}
	if ownerID != callerUID(c) {
		response.Forbidden(c)
		return
	}

	timeout := defaultWatchTimeout
	if raw := c.Query("timeoutSec"); raw != "" {
		sec, err := strconv.Atoi(raw)
		if err != nil || sec < 0 {
			response.Error(c, errors.New("invalid timeoutSec"), nil)
			return
		}
		timeout = time.Duration(sec) * time.Second
		if timeout > maxWatchTimeout {
			timeout = maxWatchTimeout
		}
	}

	var afterVersion uint64
	if raw := c.Query("afterVersion"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, errors.New("invalid afterVersion"), nil)
			return
		}
		afterVersion = v
	}

	snap := srv.store.Watch(c.Request.Context(), c.Param("collection"), ownerID, afterVersion, timeout)
	c.JSON(http.StatusOK, snap)
}
