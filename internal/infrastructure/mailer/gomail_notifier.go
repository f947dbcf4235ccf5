package mailer

import (
	"fmt"

	"github.com/jhoicas/minicrm-api/internal/application/notify"
	"github.com/jhoicas/minicrm-api/pkg/config"
	"gopkg.in/gomail.v2"
)

// Asegura que GomailNotifier implementa notify.Notifier.
var _ notify.Notifier = (*GomailNotifier)(nil)

// GomailNotifier envía las notificaciones del CRM por SMTP. Es best-effort por
// contrato: el llamador descarta el error después de loggearlo, así que acá no
// hay reintentos ni colas.
type GomailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// New construye el notificador SMTP desde la configuración.
func New(cfg config.SMTPConfig) *GomailNotifier {
	return &GomailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// EmployeeCreated envía al email de la empresa el aviso de alta de empleado
// con identidad del empleado, nombre de la empresa y fecha de creación.
func (n *GomailNotifier) EmployeeCreated(notice notify.EmployeeCreatedNotice) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", notice.CompanyEmail)
	m.SetHeader("Subject", "New Employee Added: "+notice.EmployeeName)
	m.SetBody("text/html", employeeCreatedBody(notice))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send employee created mail: %w", err)
	}
	return nil
}

func employeeCreatedBody(notice notify.EmployeeCreatedNotice) string {
	phoneRow := ""
	if notice.EmployeePhone != "" {
		phoneRow = fmt.Sprintf("<p><strong>Phone:</strong> %s</p>", notice.EmployeePhone)
	}
	return fmt.Sprintf(`<html><body>
<h1>New Employee Added</h1>
<p>Hello %s,</p>
<p>A new employee has been successfully added to your company in the Mini-CRM system.</p>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
%s
<p><strong>Company:</strong> %s</p>
<p><strong>Added on:</strong> %s</p>
<p>This is an automated message from Mini-CRM.</p>
</body></html>`,
		notice.CompanyName,
		notice.EmployeeName,
		notice.EmployeeEmail,
		phoneRow,
		notice.CompanyName,
		notice.CreatedAt.Format("January 2, 2006 at 3:04 PM"),
	)
}
