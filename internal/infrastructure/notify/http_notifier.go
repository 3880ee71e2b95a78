// Package notify implementa el boundary de notificaciones hacia el
// servicio externo de emails/envíos.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kryonshao/eshop-sub000/internal/application/webhook"
)

var _ webhook.Notifier = (*HTTPNotifier)(nil)

// HTTPNotifier envía la notificación como POST JSON a una URL configurada.
// Es fire-and-forget aguas arriba: el caller ignora el error salvo para loguearlo.
type HTTPNotifier struct {
	url    string
	client *http.Client
}

// NewHTTPNotifier construye el notifier. Con url vacía se comporta como no-op.
func NewHTTPNotifier(url string) *HTTPNotifier {
	return &HTTPNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Notify publica el aviso de cambio de estado de pago/orden.
func (n *HTTPNotifier) Notify(ctx context.Context, notification webhook.Notification) error {
	if n.url == "" {
		return nil
	}
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification endpoint respondió %d", resp.StatusCode)
	}
	return nil
}
