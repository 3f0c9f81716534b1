package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/oneair/oneair-store-api/config"
	"github.com/oneair/oneair-store-api/models"
	"github.com/resend/resend-go/v2"
)

// NotificationType tags the template used for an order message
type NotificationType string

const (
	NotificationOrderCancelled NotificationType = "order_cancelled"
)

// OrderNotification is the order snapshot handed to a Notifier
type OrderNotification struct {
	OrderID       string             `json:"order_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Total         float64            `json:"total"`
	Items         []models.OrderItem `json:"items"`
	Type          NotificationType   `json:"type"`
}

// NewOrderNotification snapshots order for a message of the given type
func NewOrderNotification(order *models.Order, kind NotificationType) OrderNotification {
	n := OrderNotification{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Total:        order.TotalAmount,
		Items:        order.Items,
		Type:         kind,
	}
	if order.Email != nil {
		n.CustomerEmail = *order.Email
	}
	return n
}

func (n OrderNotification) shortID() string {
	if len(n.OrderID) <= 8 {
		return n.OrderID
	}
	return n.OrderID[:8]
}

// Notifier delivers order messages to customers and store staff
type Notifier interface {
	Notify(ctx context.Context, n OrderNotification, settings *models.StoreSettings) error
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like a deliverable address
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// EmailNotifier sends order messages through the Resend email API
type EmailNotifier struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

// NewEmailNotifier creates a notifier from the email settings in cfg.
// An unparsable RESEND_BASE_URL keeps the SDK's default endpoint.
func NewEmailNotifier(cfg *config.Config, logger *slog.Logger) *EmailNotifier {
	client := resend.NewCustomClient(&http.Client{Timeout: 10 * time.Second}, cfg.ResendAPIKey)
	if cfg.ResendBaseURL != "" {
		if baseURL, err := url.Parse(strings.TrimRight(cfg.ResendBaseURL, "/") + "/"); err == nil {
			client.BaseURL = baseURL
		} else {
			logger.Warn("invalid RESEND_BASE_URL, using the default endpoint", slog.Any("error", err))
		}
	}

	return &EmailNotifier{
		client: client,
		from:   cfg.EmailFrom,
		logger: logger,
	}
}

// Notify sends the customer message and the staff copy. Disabled notifications are not an error.
func (s *EmailNotifier) Notify(ctx context.Context, n OrderNotification, settings *models.StoreSettings) error {
	if settings == nil || !settings.EmailNotificationsEnabled {
		s.logger.Info("email notifications disabled, skipping", slog.String("order_id", n.OrderID))
		return nil
	}

	tmpl, ok := emailTemplates[n.Type]
	if !ok {
		return fmt.Errorf("no email template for notification type %q", n.Type)
	}

	var errs []string

	if IsValidEmail(n.CustomerEmail) {
		msg, err := tmpl.render(n, settings, false)
		if err == nil {
			err = s.send(ctx, s.sender(settings), n.CustomerEmail, msg)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("customer: %v", err))
		}
	}

	if IsValidEmail(settings.NotificationEmail) {
		msg, err := tmpl.render(n, settings, true)
		if err == nil {
			err = s.send(ctx, s.sender(settings), settings.NotificationEmail, msg)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("admin: %v", err))
		}
	} else {
		s.logger.Warn("no valid admin notification email configured")
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to send order %s emails: %s", n.OrderID, strings.Join(errs, "; "))
	}
	return nil
}

func (s *EmailNotifier) sender(settings *models.StoreSettings) string {
	if settings.SenderName != "" {
		if i := strings.Index(s.from, "<"); i >= 0 {
			return settings.SenderName + " " + s.from[i:]
		}
	}
	return s.from
}

func (s *EmailNotifier) send(ctx context.Context, from, to string, msg renderedEmail) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: msg.subject,
		Html:    msg.html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent", slog.String("to", to), slog.String("subject", msg.subject), slog.String("email_id", sent.Id))
	return nil
}

// LogNotifier records messages in the log instead of sending them; used when no email API key is configured
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n OrderNotification, settings *models.StoreSettings) error {
	if settings == nil || !settings.EmailNotificationsEnabled {
		return nil
	}
	l.logger.Info("order notification",
		slog.String("type", string(n.Type)),
		slog.String("order_id", n.OrderID),
		slog.String("customer_email", n.CustomerEmail),
		slog.String("admin_email", settings.NotificationEmail),
		slog.Float64("total", n.Total))
	return nil
}

type renderedEmail struct {
	subject string
	html    string
}

type emailTemplate struct {
	customerSubject string
	adminSubject    string
	body            *template.Template
}

type emailData struct {
	Order     OrderNotification
	ShortID   string
	StoreName string
	StoreURL  string
	ForAdmin  bool
}

func (t emailTemplate) render(n OrderNotification, settings *models.StoreSettings, forAdmin bool) (renderedEmail, error) {
	storeURL := settings.StoreURL
	if storeURL == "" {
		storeURL = "http://localhost:8080"
	}
	data := emailData{Order: n, ShortID: n.shortID(), StoreName: settings.StoreName, StoreURL: storeURL, ForAdmin: forAdmin}

	var buf bytes.Buffer
	if err := t.body.Execute(&buf, data); err != nil {
		return renderedEmail{}, fmt.Errorf("failed to render email: %w", err)
	}

	subject := t.customerSubject
	if forAdmin {
		subject = t.adminSubject
	}
	return renderedEmail{
		subject: fmt.Sprintf(subject, data.ShortID, n.CustomerName),
		html:    buf.String(),
	}, nil
}

var emailTemplates = map[NotificationType]emailTemplate{
	NotificationOrderCancelled: {
		customerSubject: "تم إلغاء طلبك #%[1]s",
		adminSubject:    "Order #%[1]s cancelled - %[2]s",
		body: template.Must(template.New("order_cancelled").Parse(`<div dir="rtl" style="font-family: sans-serif;">
{{if .ForAdmin}}<h1>تم إلغاء طلب</h1>
<p><strong>العميل:</strong> {{.Order.CustomerName}}</p>
{{else}}<h1>تم إلغاء طلبك</h1>
<p>مرحباً {{.Order.CustomerName}}،</p>
<p>نأسف لإبلاغك بأنه تم إلغاء طلبك.</p>
{{end}}<p><strong>رقم الطلب:</strong> #{{.ShortID}}</p>
<p><strong>الإجمالي:</strong> {{.Order.Total}} ج.م</p>
<ul>{{range .Order.Items}}<li>{{.ProductName}} (الكمية: {{.Quantity}})</li>{{end}}</ul>
{{if .ForAdmin}}<a href="{{.StoreURL}}/admin/orders">عرض الطلبات</a>{{end}}
</div>`)),
	},
}
