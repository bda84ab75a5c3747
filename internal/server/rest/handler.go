// Package rest exposes the two API routes: the intake lookup proxy and
// the SFTP directory-listing diagnostic.
package rest

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/carelight/claimsbridge/internal/audit"
	"github.com/carelight/claimsbridge/internal/intake"
	"github.com/carelight/claimsbridge/internal/logging"
	"github.com/carelight/claimsbridge/internal/result"
	"github.com/carelight/claimsbridge/internal/transfer"
)

const (
	codeInternal = "INTERNAL_ERROR"
	codeSFTP     = "SFTP_ERROR"

	outboundDir   = "/outbound"
	inboundDir    = "/inbound"
	maxDirEntries = 10
)

// SessionDialer opens a file-transfer session. A seam so handler tests
// can substitute a fake session.
type SessionDialer func(transfer.Config) (transfer.Session, error)

// Handler holds the collaborators for both routes.
type Handler struct {
	log     logging.Logger
	intakes intake.Provider
	audits  audit.Sink

	dial    SessionDialer
	sftpCfg transfer.Config

	// auditStrict fails the lookup when the audit write fails; the
	// default is to log the failure and still answer the caller.
	auditStrict bool
}

func NewHandler(log logging.Logger, intakes intake.Provider, audits audit.Sink, dial SessionDialer, sftpCfg transfer.Config, auditStrict bool) *Handler {
	return &Handler{
		log:         log,
		intakes:     intakes,
		audits:      audits,
		dial:        dial,
		sftpCfg:     sftpCfg,
		auditStrict: auditStrict,
	}
}

// GetIntake proxies a single intake-record lookup and audit-logs the
// access. The identifier is opaque and passed upstream uninspected.
func (h *Handler) GetIntake(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("intakeId")

	h.log.Info(ctx, "intake fetch started", "intake_id", id)

	res := h.intakes.GetIntake(ctx, id)
	if !res.Success {
		c.JSON(http.StatusInternalServerError,
			result.Fail[any](res.Message("Failed to fetch intake record"), res.Code()))
		return
	}

	ev := audit.Event{
		Action:       audit.ActionIntakeViewed,
		ResourceType: audit.ResourceTypeIntake,
		ResourceID:   id,
		IPAddress:    clientIP(c.Request),
		UserAgent:    c.Request.UserAgent(),
	}
	if err := h.audits.Record(ctx, ev); err != nil {
		h.log.Error(ctx, "audit write failed", "intake_id", id, "error", err.Error())
		if h.auditStrict {
			c.JSON(http.StatusInternalServerError,
				result.Fail[any]("An unexpected error occurred", codeInternal))
			return
		}
	}

	h.log.Info(ctx, "intake fetch succeeded", "intake_id", id)
	c.JSON(http.StatusOK, result.Ok(res.Data))
}

// ListTransferDirectories is an operator diagnostic, not a production
// data path. It lists the root plus two fixed drop directories on one
// session and reports whatever it could read.
func (h *Handler) ListTransferDirectories(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.dial(h.sftpCfg)
	if err != nil {
		h.log.Error(ctx, "sftp connect failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, result.Fail[any](err.Error(), codeSFTP))
		return
	}
	defer sess.Close()

	// The root listing is the connectivity check itself; its failure
	// fails the whole request.
	root, err := sess.List("/")
	if err != nil {
		h.log.Error(ctx, "sftp root listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, result.Fail[any](err.Error(), codeSFTP))
		return
	}

	outbound := listCapped(sess, outboundDir)
	inbound := listCapped(sess, inboundDir)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "SFTP connection successful",
		"directories": gin.H{
			"root":     root,
			"outbound": outbound,
			"inbound":  inbound,
		},
	})
}

// listCapped lists one directory, degrading to a single-element error
// array on failure so one bad directory never aborts the diagnostic.
// Successful listings are capped at maxDirEntries, order preserved.
func listCapped(sess transfer.Session, path string) any {
	entries, err := sess.List(path)
	if err != nil {
		return []string{"Error: " + err.Error()}
	}
	return transfer.Truncate(entries, maxDirEntries)
}

// Recovery converts any panic below into the generic envelope; internal
// detail is logged, never sent to the client.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				log.Error(c.Request.Context(), "handler panic", "error", fmt.Sprint(p))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					result.Fail[any]("An unexpected error occurred", codeInternal))
			}
		}()
		c.Next()
	}
}

// clientIP prefers the X-Forwarded-For header (first hop) and falls
// back to the direct connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
