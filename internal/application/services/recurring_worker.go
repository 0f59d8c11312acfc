package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/atlaserp/backend/internal/domain/models"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/constants"
)

// RecurringInvoiceWorker polls recurring templates and materializes
// invoices when their cron schedule comes due.
type RecurringInvoiceWorker struct {
	invoices   *persistence.InvoiceRepository
	invoiceSvc *InvoiceService
	stopChan   chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool
	stopped    bool // Prevents double-close of stopChan
}

func NewRecurringInvoiceWorker(invoices *persistence.InvoiceRepository, invoiceSvc *InvoiceService) *RecurringInvoiceWorker {
	return &RecurringInvoiceWorker{
		invoices:   invoices,
		invoiceSvc: invoiceSvc,
		stopChan:   make(chan struct{}),
	}
}

// Start begins the polling loop. Call from its own goroutine.
func (w *RecurringInvoiceWorker) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	log.Println("🧾 Recurring invoice worker starting...")

	ticker := time.NewTicker(time.Duration(constants.RecurringCheckInterval) * time.Second)
	defer ticker.Stop()

	// Run immediately on start
	w.runDueTemplates()

	for {
		select {
		case <-ticker.C:
			w.runDueTemplates()
		case <-w.stopChan:
			log.Println("🧾 Recurring invoice worker stopping...")
			w.wg.Wait()
			log.Println("🧾 Recurring invoice worker stopped")
			return
		}
	}
}

// Stop gracefully stops the worker.
func (w *RecurringInvoiceWorker) Stop() {
	w.mu.Lock()
	if !w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	close(w.stopChan)
}

func (w *RecurringInvoiceWorker) runDueTemplates() {
	ctx := context.Background()
	now := time.Now()

	templates, err := w.invoices.FindDueTemplates(ctx, now)
	if err != nil {
		log.Printf("⚠️ Failed to load due templates: %v", err)
		return
	}

	for _, template := range templates {
		w.wg.Add(1)
		go func(t *models.RecurringTemplate) {
			defer w.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("🔥 Panic generating invoice for template %s: %v", t.ID, r)
				}
			}()
			w.generateFromTemplate(ctx, t, now)
		}(template)
	}
	w.wg.Wait()
}

// generateFromTemplate materializes one invoice and advances the
// template's next-run time from its cron schedule.
func (w *RecurringInvoiceWorker) generateFromTemplate(ctx context.Context, t *models.RecurringTemplate, now time.Time) {
	inv, err := w.invoiceSvc.CreateInvoice(ctx, CreateInvoiceRequest{
		CompanyID: t.CompanyID,
		IssueDate: now,
		Lines: []LineRequest{{
			Description: t.Description,
			Quantity:    t.Quantity,
			UnitPrice:   t.UnitPrice,
			TaxRate:     t.TaxRate,
		}},
	})
	if err != nil {
		log.Printf("❌ Failed to generate invoice from template %s: %v", t.ID, err)
		return
	}

	schedule, err := cron.ParseStandard(t.Schedule)
	if err != nil {
		log.Printf("⚠️ Template %s has an invalid schedule, deactivating: %v", t.ID, err)
		if err := w.invoices.SetTemplateActive(ctx, t.ID, false); err != nil {
			log.Printf("⚠️ Failed to deactivate template %s: %v", t.ID, err)
		}
		return
	}

	nextRun := schedule.Next(now)
	if err := w.invoices.MarkTemplateRun(ctx, t.ID, now, nextRun); err != nil {
		log.Printf("⚠️ Failed to advance template %s: %v", t.ID, err)
		return
	}

	log.Printf("✅ Generated invoice %s from template %s (next run %s)",
		inv.Number, t.ID, nextRun.Format(time.RFC3339))
}
