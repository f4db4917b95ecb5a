package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/observability"
)

// EntriesRepo writes new activity rows. The submitter email is always supplied by the caller
// from the authenticated identity.
type EntriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEntriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *EntriesRepo {
	return &EntriesRepo{pool: pool, prom: prom}
}

// CreateTrackerBatch stores one row per submitted project in a single transaction.
func (r *EntriesRepo) CreateTrackerBatch(ctx context.Context, rows []activity.TrackerRow) ([]string, error) {
	ids := make([]string, 0, len(rows))

	err := r.prom.ObserveDB("entries.create_tracker_batch", func() error {
		return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
			batch := &pgx.Batch{}
			for _, row := range rows {
				p := row.Project
				var metadata *string
				if len(row.MetadataJSON) > 0 {
					s := string(row.MetadataJSON)
					metadata = &s
				}

				batch.Queue(`
					INSERT INTO daily_tracker_table (
						id, email, activity_date, mode_of_functioning, pod_name, product,
						project_name, nature_of_work, task, dedicated_hours, remarks,
						conductor_lines, number_of_points,
						benchmark_for_task, line_miles, line_miles_h1v1, dedicated_hours_h1v1,
						line_miles_h1v0, dedicated_hours_h1v0,
						tracker_updating, data_quality_checking, training_feedback, trn_remarks,
						documentation, doc_remark, others_misc, updated_in_prod_qc_tracker,
						site_name, area_hectares, polygon_feature_count, polyline_feature_count,
						point_feature_count, spent_hours_on_above_task, density,
						time_field, metadata_json
					) VALUES (
						$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
						$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32,
						$33, $34, $35, $36
					)`,
					row.ID, row.Email, row.ActivityDate, row.ModeOfFunctioning, row.PodName, row.Product,
					p.ProjectName, p.NatureOfWork, p.TaskName(), p.DedicatedHours, p.Remarks,
					p.ConductorLines, p.NumberOfPoints,
					p.BenchmarkForTask, p.LineMiles, p.LineMilesH1V1, p.DedicatedHoursH1V1,
					p.LineMilesH1V0, p.DedicatedHoursH1V0,
					p.TrackerUpdating, p.DataQualityChecking, p.TrainingFeedback, p.TrnRemarks,
					p.Documentation, p.DocRemark, p.OthersMisc, p.UpdatedInProdQCTracker,
					p.SiteName, p.AreaHectares, p.PolygonFeatureCount, p.PolylineFeatureCount,
					p.PointFeatureCount, p.SpentHoursOnAboveTask, p.Density,
					p.Time, metadata,
				)
			}

			return tx.SendBatch(ctx, batch).Close()
		})
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, activity.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("create tracker batch: %w", err)
	}

	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// CreateDaily stores a daily entry. A second entry for the same email and date is rejected
// with activity.ErrDuplicateEntry.
func (r *EntriesRepo) CreateDaily(ctx context.Context, email string, e activity.DailyEntry) (string, error) {
	date, err := e.Date()
	if err != nil {
		return "", err
	}

	var id int64
	err = r.prom.ObserveDB("entries.create_daily", func() error {
		return r.pool.QueryRow(ctx, `
			INSERT INTO daily_activity_new (
				email, name, mode_of_functioning, pod_name, project_name, nature_of_work, task,
				dedicated_hours, dedicated_hours_h1v1, dedicated_hours_h1v0,
				line_miles, line_miles_h1v1, line_miles_h1v0,
				benchmark_for_task, remarks, activity_date
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id
		`,
			email, e.Name, e.ModeOfFunctioning, e.PodName, e.ProjectName, e.NatureOfWork, e.Task,
			e.DedicatedHours, e.DedicatedHoursH1V1, e.DedicatedHoursH1V0,
			e.LineMiles, e.LineMilesH1V1, e.LineMilesH1V0,
			e.BenchmarkForTask, e.Remarks, date,
		).Scan(&id)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return "", activity.ErrDuplicateEntry
		}
		return "", fmt.Errorf("create daily entry: %w", err)
	}

	return strconv.FormatInt(id, 10), nil
}

// CreateResource stores a resource or resource planning entry, chosen by src.
func (r *EntriesRepo) CreateResource(ctx context.Context, src activity.Source, email string, e activity.ResourceEntry) (string, error) {
	var table string
	switch src {
	case activity.SourceResource:
		table = activity.Resource.Name
	case activity.SourceResourcePlan:
		table = activity.ResourcePlan.Name
	default:
		return "", fmt.Errorf("create resource: unsupported source %q", src)
	}

	date, err := e.ActivityDate()
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	err = r.prom.ObserveDB("entries.create_"+string(src), func() error {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO `+table+` (
				id, email, activity_date, pod_name, mode_of_functioning, product,
				project_name, nature_of_work, task
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, email, date, e.PodName, e.ModeOfFunctioning, e.Product, e.ProjectName, e.NatureOfWork, e.Task)
		return err
	})
	if err != nil {
		if isConstraintViolation(err) {
			return "", activity.ErrDuplicateEntry
		}
		return "", fmt.Errorf("create %s entry: %w", src, err)
	}

	return id, nil
}
