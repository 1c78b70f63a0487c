package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionCookie       = "shop_session"
	sessionCookieMaxAge = 14 * 24 * 60 * 60

	headerRequestedWith = "X-Requested-With"
	headerUserID        = "X-User-ID"
)

// sessionID returns the request's cart session ID, minting a fresh one
// and setting the cookie when the request carries none.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// userID returns the authenticated user's identifier, empty for guests.
// Authentication itself happens upstream; this layer only trusts the
// header the gateway injects.
func userID(r *http.Request) string {
	return r.Header.Get(headerUserID)
}

// wantsJSON reports whether the client asked for a JSON answer rather
// than a browser redirect.
func wantsJSON(r *http.Request) bool {
	return r.Header.Get(headerRequestedWith) == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON flushes the encoder's buffer with the given status.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// respondError writes a JSON error body. Used by the read-side endpoints
// that never answer with redirects.
func respondError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("error", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, status, &e)
}

// respondInternal logs err and answers with an opaque 500.
func respondInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "internal error")
}

// redirectBack sends the browser to the page it came from.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := r.Referer()
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondMessage answers a mutation. Clients marked with
// X-Requested-With get {success, message}; browsers get a 303 back to
// the referer regardless of outcome, matching classic form flows.
func respondMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	if !wantsJSON(r) {
		redirectBack(w, r)
		return
	}
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("success", func(e *jx.Encoder) { e.Bool(status < 400) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, status, &e)
}

// respondCartMessage is respondMessage plus the updated cart badge count.
func respondCartMessage(w http.ResponseWriter, r *http.Request, status int, message string, cartCount int) {
	if !wantsJSON(r) {
		redirectBack(w, r)
		return
	}
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("success", func(e *jx.Encoder) { e.Bool(status < 400) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		e.Field("cart_count", func(e *jx.Encoder) { e.Int(cartCount) })
	})
	writeJSON(w, status, &e)
}

// bodyFields parses the request payload into a flat string map. Form
// encodings and flat JSON objects are both accepted so the same endpoint
// serves HTML forms and API clients.
func bodyFields(r *http.Request) (map[string]string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		fields := make(map[string]string)
		if len(data) == 0 {
			return fields, nil
		}
		d := jx.DecodeBytes(data)
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch d.Next() {
			case jx.String:
				v, err := d.Str()
				fields[key] = v
				return err
			case jx.Number:
				n, err := d.Num()
				if err != nil {
					return err
				}
				fields[key] = n.String()
				return nil
			default:
				return d.Skip()
			}
		}); err != nil {
			return nil, err
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}
