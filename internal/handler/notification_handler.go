package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lendworks-web/internal/api"
)

// NotificationHandler serves the notifications page.
type NotificationHandler struct {
	client   *api.Client
	renderer *Renderer
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(client *api.Client, renderer *Renderer) *NotificationHandler {
	return &NotificationHandler{client: client, renderer: renderer}
}

func init() {
	registerTemplate("notifications", `
<h1>Notifications</h1>
{{if not .Data}}<p>Nothing here yet.</p>{{else}}
<table>
<tr><th>When</th><th>Title</th><th>Message</th><th></th></tr>
{{range .Data}}
<tr>
<td>{{.CreatedAtUtc}}</td>
<td>{{if .IsRead}}{{.Title}}{{else}}<strong>{{.Title}}</strong>{{end}}</td>
<td>{{.Message}}</td>
<td>
{{if not .IsRead}}
<form class="inline" method="post" action="/notifications/{{.ID}}/read"><button type="submit">Mark read</button></form>
{{end}}
</td>
</tr>
{{end}}
</table>
{{end}}`)
}

// List shows the user's notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.client.Notifications(r.Context())
	if err != nil {
		h.renderer.render(w, r, "notifications", page{Title: "Notifications", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "notifications", page{Title: "Notifications", Data: items})
}

// MarkRead marks one notification read and reloads the list.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "notificationID")
	if err := h.client.MarkNotificationRead(r.Context(), id); err != nil {
		h.renderer.render(w, r, "notifications", page{Title: "Notifications", Error: errorMessage(r.Context(), err)})
		return
	}
	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}
