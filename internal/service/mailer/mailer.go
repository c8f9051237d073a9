package mailer

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"SwingPull/internal/domain/models"
	drepo "SwingPull/internal/domain/repository"
	"SwingPull/pkg/config"
	"SwingPull/pkg/logger"
)

// SMTPMailer sends the dashboard workbook to the configured recipients.
// When credentials are absent it degrades to a no-op so unattended runs
// never fail on delivery.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	to       []string
	log      *logger.Logger
}

func NewSMTP(cfg *config.Config, log *logger.Logger) *SMTPMailer {
	m := &SMTPMailer{
		host:     cfg.Email.SMTPHost,
		port:     cfg.Email.SMTPPort,
		user:     cfg.Email.SMTPUser,
		password: cfg.Email.SMTPPassword,
		log:      log,
	}
	for _, addr := range strings.Split(cfg.Email.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			m.to = append(m.to, addr)
		}
	}
	return m
}

// Enabled reports whether credentials and recipients are configured.
func (m *SMTPMailer) Enabled() bool {
	return m.user != "" && m.password != "" && len(m.to) > 0
}

// Send mails the snapshot summary with the workbook attached.
func (m *SMTPMailer) Send(snap *models.MarketSnapshot, attachmentPath string) error {
	if !m.Enabled() {
		m.log.Warn("email credentials not configured, skipping delivery")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.user)
	msg.SetHeader("To", m.to...)
	msg.SetHeader("Subject", fmt.Sprintf("Swing Trade Dashboard - %s",
		snap.GeneratedAt.Format("Jan 2, 2006 3:04 PM")))
	msg.SetBody("text/plain", m.body(snap))
	if attachmentPath != "" {
		msg.Attach(attachmentPath)
	}

	dialer := gomail.NewDialer(m.host, m.port, m.user, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	m.log.Info("dashboard email sent",
		logger.Int("recipients", len(m.to)),
		logger.String("attachment", attachmentPath))
	return nil
}

func (m *SMTPMailer) body(snap *models.MarketSnapshot) string {
	var b strings.Builder

	b.WriteString("SWING TRADE MARKET DASHBOARD\n")
	b.WriteString("Generated: " + snap.GeneratedAt.Format("January 2, 2006 at 3:04 PM MST") + "\n\n")

	b.WriteString("MARKET OVERVIEW\n")
	for _, ind := range snap.Macro.Futures {
		if ind.Valid {
			fmt.Fprintf(&b, "  %-22s %10.2f  %+8.2f  (%+.2f%%)  %s\n",
				ind.Name, ind.Level, ind.Change, ind.Pct, ind.Signal)
		} else {
			fmt.Fprintf(&b, "  %-22s %10s  %s\n", ind.Name, "N/A", ind.Signal)
		}
	}
	fmt.Fprintf(&b, "\nFUTURES VERDICT: %s\n\n", snap.Macro.Verdict)

	b.WriteString("TOP 3 SWING TRADE CANDIDATES\n")
	for _, s := range snap.Top3() {
		change := "N/A"
		if s.PctChangeValid {
			change = fmt.Sprintf("%+.2f%%", s.PctChange)
		}
		fmt.Fprintf(&b, "  #%d %-6s %-24s score %.1f  last $%.2f (%s)\n",
			s.Rank, s.Symbol, s.Company, s.Composite, s.Last, change)
	}

	if len(snap.Failed) > 0 {
		fmt.Fprintf(&b, "\nSymbols unavailable this cycle: %s\n", strings.Join(snap.Failed, ", "))
	}

	b.WriteString("\nFull rankings are in the attached workbook.\n")
	return b.String()
}

var _ drepo.Mailer = (*SMTPMailer)(nil)
