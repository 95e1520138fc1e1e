package notifier

import (
	"context"
	"fmt"
	"log"
	"time"

	"printrove-wms/config"
	"printrove-wms/models"
	"printrove-wms/repositories"

	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// CapacityNotifier polls bin utilization and emails ops when a bin crosses
// FULL. One alert per crossing: the bin must drop below full before it can
// fire again.
type CapacityNotifier struct {
	db       *gorm.DB
	interval time.Duration
	alerted  map[uint]bool
	cancel   context.CancelFunc
	send     func(bins []models.BinUtilization) error
}

func NewCapacityNotifier(db *gorm.DB) *CapacityNotifier {
	n := &CapacityNotifier{
		db:       db,
		interval: time.Duration(config.AlertIntervalMin) * time.Minute,
		alerted:  make(map[uint]bool),
	}
	n.send = n.sendMail
	return n
}

// Start launches the polling loop. No-op when SMTP is not configured.
func (n *CapacityNotifier) Start() {
	if config.SMTPHost == "" || len(config.AlertRecipients) == 0 {
		log.Println("Capacity notifier disabled: SMTP not configured")
		return
	}
	if n.interval <= 0 {
		n.interval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	go func() {
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := n.Check(); err != nil {
					log.Printf("Capacity notifier check failed: %v", err)
				}
			}
		}
	}()
}

// Stop cancels the polling loop.
func (n *CapacityNotifier) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
}

// Check runs one polling pass and sends at most one alert mail covering the
// bins that newly crossed FULL.
func (n *CapacityNotifier) Check() error {
	repo := repositories.NewBinRepository(n.db)
	utilizations, err := repo.ListUtilization()
	if err != nil {
		return err
	}

	var crossed []models.BinUtilization
	for _, u := range utilizations {
		if u.Status == models.BinStatusFull {
			if !n.alerted[u.BinID] {
				n.alerted[u.BinID] = true
				crossed = append(crossed, u)
			}
		} else {
			delete(n.alerted, u.BinID)
		}
	}

	if len(crossed) == 0 {
		return nil
	}
	return n.send(crossed)
}

func (n *CapacityNotifier) sendMail(bins []models.BinUtilization) error {
	body := "<p>The following bins are at or over capacity:</p><ul>"
	for _, u := range bins {
		body += fmt.Sprintf("<li>%s: %d/%d units (%.0f%%)</li>",
			u.Name, u.CurrentQuantity, u.Capacity, u.UtilizationPercent)
	}
	body += "</ul>"

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.SMTPSender)
	msg.SetHeader("To", config.AlertRecipients...)
	msg.SetHeader("Subject", fmt.Sprintf("[WMS] %d bin(s) at capacity", len(bins)))
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPSender, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Println("Failed to send capacity alert:", err)
		return err
	}

	log.Println("Capacity alert sent to:", config.AlertRecipients)
	return nil
}
