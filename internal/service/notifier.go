package service

import (
	"fmt"
	"time"

	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/mailer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

// StockChangeEvent describes a committed stock mutation. It is built after the
// transaction commits, so dispatch can never unwind the primary operation.
type StockChangeEvent struct {
	Product   model.Product
	Direction Direction
	Quantity  int
	Reason    string
	OldStock  int
	NewStock  int
}

// Dispatcher fans stock events out to the tenant's admins. Every method is
// best-effort: failures are logged and never propagate to the caller.
type Dispatcher interface {
	DispatchStockChange(event StockChangeEvent)
	DispatchLowStock(product model.Product)
}

// Broadcaster pushes events to the live websocket feed.
type Broadcaster interface {
	Publish(eventType string, payload interface{})
}

type notifier struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	mail     mailer.Mailer
	hub      Broadcaster
	log      *zap.Logger
}

func NewNotifier(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, mail mailer.Mailer, hub Broadcaster, log *zap.Logger) Dispatcher {
	return &notifier{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		mail:     mail,
		hub:      hub,
		log:      log,
	}
}

func (n *notifier) DispatchStockChange(event StockChangeEvent) {
	org := n.resolveOrg(event.Product)

	if n.hub != nil {
		n.hub.Publish("stock_update", map[string]interface{}{
			"product_id": event.Product.ID,
			"product":    event.Product.Name,
			"direction":  string(event.Direction),
			"quantity":   event.Quantity,
			"old_stock":  event.OldStock,
			"new_stock":  event.NewStock,
			"reason":     event.Reason,
		})
	}

	subject, body := buildStockChangeEmail(event, org)
	n.fanOutToAdmins(event.Product.OrganizationID, subject, body)
}

func (n *notifier) DispatchLowStock(product model.Product) {
	org := n.resolveOrg(product)

	if n.hub != nil {
		n.hub.Publish("low_stock_alert", map[string]interface{}{
			"product_id":    product.ID,
			"product":       product.Name,
			"stock":         product.Stock,
			"minimum_stock": product.MinimumStock,
		})
	}

	subject, body := buildLowStockEmail(product, org)
	n.fanOutToAdmins(product.OrganizationID, subject, body)
}

func (n *notifier) resolveOrg(product model.Product) *model.Organization {
	if product.Organization != nil {
		return product.Organization
	}
	org, err := n.orgRepo.FindByID(product.OrganizationID)
	if err != nil {
		n.log.Warn("failed to resolve organization for notification",
			zap.String("product_id", product.ID.String()), zap.Error(err))
		return nil
	}
	return org
}

// fanOutToAdmins attempts each recipient independently; one failed send never
// blocks the remaining admins.
func (n *notifier) fanOutToAdmins(orgID uuid.UUID, subject, body string) {
	admins, err := n.userRepo.FindAdminsByOrg(orgID)
	if err != nil {
		n.log.Error("failed to resolve admin recipients", zap.Error(err))
		return
	}
	for _, admin := range admins {
		if err := n.mail.Send(admin.Email, subject, body); err != nil {
			n.log.Error("failed to send stock notification email",
				zap.String("recipient", admin.Email), zap.Error(err))
		}
	}
}

func buildStockChangeEmail(event StockChangeEvent, org *model.Organization) (subject, body string) {
	orgName := ""
	if org != nil {
		orgName = org.Name
	}

	if event.Direction == DirectionIncrease {
		subject = "Stock Increase Notification - " + event.Product.Name
	} else {
		subject = "Stock Decrease Notification - " + event.Product.Name
	}

	sign := "+"
	if event.Direction == DirectionDecrease {
		sign = "-"
	}

	body = fmt.Sprintf(
		"Stock change notification for '%s' (%s)\n\n"+
			"Previous stock : %d %s\n"+
			"New stock      : %d %s\n"+
			"Change         : %s%d %s\n"+
			"Reason         : %s\n"+
			"Time           : %s\n",
		event.Product.Name, orgName,
		event.OldStock, event.Product.Unit,
		event.NewStock, event.Product.Unit,
		sign, event.Quantity, event.Product.Unit,
		event.Reason,
		time.Now().Format("2006-01-02 15:04:05"),
	)

	if event.NewStock <= event.Product.MinimumStock {
		body += fmt.Sprintf(
			"\nWARNING: stock is at or below the minimum threshold (%d %s). Please restock soon.\n",
			event.Product.MinimumStock, event.Product.Unit,
		)
	}
	return subject, body
}

func buildLowStockEmail(product model.Product, org *model.Organization) (subject, body string) {
	orgName := ""
	if org != nil {
		orgName = org.Name
	}

	subject = "Low Stock Alert - " + product.Name
	body = fmt.Sprintf(
		"Low stock alert for '%s' (%s)\n\n"+
			"Current stock     : %d %s\n"+
			"Minimum threshold : %d %s\n\n"+
			"Please restock this product soon.\n",
		product.Name, orgName,
		product.Stock, product.Unit,
		product.MinimumStock, product.Unit,
	)
	return subject, body
}
