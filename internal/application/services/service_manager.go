package services

import (
	"github.com/atlaserp/backend/internal/infrastructure/database"
	"github.com/atlaserp/backend/internal/infrastructure/persistence"
	"github.com/atlaserp/backend/pkg/expression"
)

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	db *database.Connection

	Auth          *AuthService
	Contacts      *ContactService
	Pricing       *PricingService
	Invoices      *InvoiceService
	Accounting    *AccountingService
	Inventory     *InventoryService
	Purchasing    *OrderService
	Sales         *OrderService
	Subscriptions *SubscriptionService
	Employees     *EmployeeService
	Production    *ProductionService
	Projects      *ProjectService
	Analytics     *AnalyticsService
	Agents        *AgentRegistry

	RecurringWorker *RecurringInvoiceWorker
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(db *database.Connection, llm LLMClient) *ServiceManager {
	sm := &ServiceManager{db: db}

	// Repositories
	users := persistence.NewUserRepository(db.DB())
	contacts := persistence.NewContactRepository(db.DB())
	invoices := persistence.NewInvoiceRepository(db.DB())
	accounting := persistence.NewAccountingRepository(db.DB())
	inventory := persistence.NewInventoryRepository(db.DB())
	purchaseOrders := persistence.NewPurchaseOrderRepository(db.DB())
	salesOrders := persistence.NewSalesOrderRepository(db.DB())
	subscriptions := persistence.NewSubscriptionRepository(db.DB())
	employees := persistence.NewEmployeeRepository(db.DB())
	production := persistence.NewProductionRepository(db.DB())
	projects := persistence.NewProjectRepository(db.DB())

	// Services in dependency order
	sm.Auth = NewAuthService(users)
	sm.Contacts = NewContactService(contacts)
	sm.Pricing = NewPricingService(expression.NewEngine(), invoices)
	sm.Invoices = NewInvoiceService(invoices, sm.Pricing)
	sm.Accounting = NewAccountingService(accounting)
	sm.Inventory = NewInventoryService(inventory)
	sm.Purchasing = NewPurchaseOrderService(purchaseOrders)
	sm.Sales = NewSalesOrderService(salesOrders)
	sm.Subscriptions = NewSubscriptionService(subscriptions)
	sm.Employees = NewEmployeeService(employees)
	sm.Production = NewProductionService(production, sm.Inventory)
	sm.Projects = NewProjectService(projects)
	sm.Analytics = NewAnalyticsService(db.DB())

	sm.Agents = NewAgentRegistry(
		NewContactInsightsAgent(sm.Contacts, llm),
		NewAccountingAgent(sm.Accounting, llm),
	)

	sm.RecurringWorker = NewRecurringInvoiceWorker(invoices, sm.Invoices)

	return sm
}

// StartWorkers launches background processing. Call during startup.
func (sm *ServiceManager) StartWorkers() {
	go sm.RecurringWorker.Start()
}

// StopWorkers stops background processing gracefully. Call during
// shutdown.
func (sm *ServiceManager) StopWorkers() {
	sm.RecurringWorker.Stop()
}
