package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	"github.com/stocknexus/stocknexus-backend/pkg/metrics"
)

// stockThreshold is the fixed band boundary for raising and resolving alerts.
// The per-item low_stock_threshold column is read by dashboard counts only,
// never here.
const stockThreshold = 10

// Reconciler keeps the alerts table consistent with aggregate stock levels.
// It must run inside the same transaction as the inventory write that fired
// it: a failure here aborts that write.
type Reconciler struct {
	repo    Repository
	metrics *metrics.ReconcilerMetrics
	logg    *logger.Logger
}

// NewReconciler wires the reconciler dependencies. Metrics may be nil.
func NewReconciler(repo Repository, m *metrics.ReconcilerMetrics, logg *logger.Logger) (*Reconciler, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &Reconciler{repo: repo, metrics: m, logg: logg}, nil
}

// Reconcile recomputes the aggregate quantity for (name, department) and
// applies the alert decision table. itemID is the row that triggered the
// write; nil when the row was deleted.
func (r *Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, itemID *uuid.UUID, name string, department enums.Department) error {
	start := time.Now()
	err := r.reconcile(ctx, tx, itemID, name, department)
	r.metrics.ObserveDuration(string(department), time.Since(start))
	if err != nil {
		r.metrics.IncRun(string(department), "error")
		return err
	}
	r.metrics.IncRun(string(department), "ok")
	return nil
}

func (r *Reconciler) reconcile(ctx context.Context, tx *gorm.DB, itemID *uuid.UUID, name string, department enums.Department) error {
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if !department.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	repo := r.repo.WithTx(tx)

	total, err := repo.SumQuantity(ctx, name, department)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate stock level")
	}

	if total > stockThreshold {
		resolved, err := repo.ResolveUnresolved(ctx, name, department, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve alerts")
		}
		if resolved > 0 {
			r.metrics.IncTransition(string(department), "resolved")
			r.logg.Info(r.logg.WithFields(ctx, map[string]any{
				"item_name": name, "department": department, "total": total, "resolved": resolved,
			}), "stock replenished, alerts resolved")
		}
		return nil
	}

	exists, err := repo.HasUnresolved(ctx, name, department)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up unresolved alert")
	}
	if exists {
		// Repeated writes inside the same band stay quiet.
		return nil
	}

	alert := &models.Alert{
		ID:         uuid.New(),
		ItemID:     itemID,
		ItemName:   name,
		Department: department,
	}
	if total == 0 {
		alert.Type = enums.AlertTypeOutOfStock
		alert.Severity = enums.AlertSeverityHigh
		alert.Message = fmt.Sprintf("%s is out of stock in %s. Total: 0", name, department)
	} else {
		alert.Type = enums.AlertTypeLowStock
		alert.Severity = enums.AlertSeverityMedium
		alert.Message = fmt.Sprintf("%s is running low in %s. Total: %d", name, department, total)
	}

	if err := repo.Create(ctx, alert); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create alert")
	}

	transition := "raised_low_stock"
	if alert.Type == enums.AlertTypeOutOfStock {
		transition = "raised_out_of_stock"
	}
	r.metrics.IncTransition(string(department), transition)
	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"item_name": name, "department": department, "total": total, "type": alert.Type,
	}), "stock alert raised")

	return nil
}
