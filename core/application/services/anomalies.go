package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/shared/text"
)

const (
	splittingHighContracts = 5
	concentrationHighPct   = 70.0
)

const contractSplittingSQL = `SELECT d.org_name, e.contractor_name, COUNT(*) AS contract_count,
       SUM(e.amount) AS total, AVG(e.amount) AS avg_amount,
       MAX(e.amount) AS max_amount
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
WHERE e.contractor_name IS NOT NULL AND e.contractor_name != ''
GROUP BY d.org_name, e.contractor_name
HAVING COUNT(*) >= 3 AND MAX(e.amount) < 20000
ORDER BY COUNT(*) DESC
LIMIT 20`

const thresholdGamingSQL = `SELECT d.org_name, e.contractor_name, e.amount, d.ada, d.subject
FROM decisions d
JOIN expense_items e ON e.decision_id = d.id
WHERE e.amount BETWEEN 19000 AND 20000
ORDER BY e.amount DESC
LIMIT 20`

const concentrationSQL = `WITH org_totals AS (
    SELECT d.org_name, SUM(e.amount) AS org_total
    FROM decisions d JOIN expense_items e ON e.decision_id = d.id
    GROUP BY d.org_name
    HAVING SUM(e.amount) > 50000
),
contractor_by_org AS (
    SELECT d.org_name, e.contractor_name, SUM(e.amount) AS contractor_total
    FROM decisions d JOIN expense_items e ON e.decision_id = d.id
    WHERE e.contractor_name IS NOT NULL AND e.contractor_name != ''
    GROUP BY d.org_name, e.contractor_name
)
SELECT c.org_name, c.contractor_name, c.contractor_total, o.org_total,
       ROUND(100.0 * c.contractor_total / o.org_total, 1) AS pct
FROM contractor_by_org c
JOIN org_totals o ON o.org_name = c.org_name
WHERE c.contractor_total > 0.5 * o.org_total
ORDER BY pct DESC
LIMIT 15`

type detector struct {
	name      string
	statement string
	build     func(row map[string]any) domain.Anomaly
}

var detectors = []detector{
	{name: "contract splitting", statement: contractSplittingSQL, build: splittingAnomaly},
	{name: "threshold gaming", statement: thresholdGamingSQL, build: thresholdAnomaly},
	{name: "concentration", statement: concentrationSQL, build: concentrationAnomaly},
}

// Anomalies runs every detector and returns the findings, high severity
// first. Within a severity, detector order and row order are kept.
func (s *DashboardService) Anomalies(ctx context.Context) ([]domain.Anomaly, error) {
	found := make([][]domain.Anomaly, len(detectors))

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range detectors {
		g.Go(func() error {
			rows, err := s.rows(gctx, d.name, d.statement)
			if err != nil {
				return err
			}
			out := make([]domain.Anomaly, 0, len(rows))
			for _, row := range rows {
				out = append(out, d.build(row))
			}
			found[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Errorf("Anomaly detection failed: %v", err)
		return nil, err
	}

	var anomalies []domain.Anomaly
	for _, batch := range found {
		anomalies = append(anomalies, batch...)
	}
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() < anomalies[j].Severity.Rank()
	})
	if anomalies == nil {
		anomalies = []domain.Anomaly{}
	}
	return anomalies, nil
}

func splittingAnomaly(row map[string]any) domain.Anomaly {
	data := copyRow(row)
	count := asInt(row["contract_count"])
	data["total"] = asFloat(row["total"])
	data["avg_amount"] = asFloat(row["avg_amount"])
	data["max_amount"] = asFloat(row["max_amount"])

	severity := domain.SeverityMedium
	if count >= splittingHighContracts {
		severity = domain.SeverityHigh
	}
	return domain.Anomaly{
		Type:     domain.AnomalyContractSplitting,
		Severity: severity,
		Title:    "Possible contract splitting: " + text.Truncate(asString(row["contractor_name"]), 40),
		Description: fmt.Sprintf("%d contracts with %s, avg €%s, total €%s",
			count, text.Truncate(asString(row["org_name"]), 30),
			euros(asFloat(row["avg_amount"])), euros(asFloat(row["total"]))),
		Data: data,
	}
}

func thresholdAnomaly(row map[string]any) domain.Anomaly {
	data := copyRow(row)
	amount := asFloat(row["amount"])
	data["amount"] = amount
	return domain.Anomaly{
		Type:     domain.AnomalyThresholdGaming,
		Severity: domain.SeverityMedium,
		Title:    "Near-threshold: €" + euros(amount),
		Description: fmt.Sprintf("%s → %s, ADA: %s",
			text.Truncate(asString(row["contractor_name"]), 30),
			text.Truncate(asString(row["org_name"]), 30),
			asString(row["ada"])),
		Data: data,
	}
}

func concentrationAnomaly(row map[string]any) domain.Anomaly {
	data := copyRow(row)
	pct := asFloat(row["pct"])
	contractorTotal := asFloat(row["contractor_total"])
	orgTotal := asFloat(row["org_total"])
	data["pct"] = pct
	data["contractor_total"] = contractorTotal
	data["org_total"] = orgTotal

	severity := domain.SeverityMedium
	if pct > concentrationHighPct {
		severity = domain.SeverityHigh
	}
	return domain.Anomaly{
		Type:     domain.AnomalyConcentration,
		Severity: severity,
		Title:    percent(pct) + "% concentration",
		Description: fmt.Sprintf("%s gets %s%% of %s's spending (€%s / €%s)",
			text.Truncate(asString(row["contractor_name"]), 30), percent(pct),
			text.Truncate(asString(row["org_name"]), 30),
			euros(contractorTotal), euros(orgTotal)),
		Data: data,
	}
}
