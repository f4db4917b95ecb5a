package activity

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// TrackerSubmission is one day's tracker form: a shared header and one block per project.
type TrackerSubmission struct {
	Date              string           `json:"date" binding:"required,datetime=2006-01-02"`
	ModeOfFunctioning *string          `json:"modeOfFunctioning"`
	PodName           *string          `json:"podName" binding:"omitempty,max=100"`
	Product           *string          `json:"product" binding:"omitempty,max=100"`
	Projects          []TrackerProject `json:"projects" binding:"required,min=1,dive"`
}

// TrackerProject carries the common fields plus the product-specific metrics. Only the metrics
// relevant to the submitted product are expected to be set.
type TrackerProject struct {
	ProjectName    *string             `json:"projectName" binding:"omitempty,max=255"`
	NatureOfWork   *string             `json:"natureOfWork" binding:"omitempty,max=255"`
	Task           *string             `json:"task"`
	SubTask        *string             `json:"subTask"`
	DedicatedHours decimal.NullDecimal `json:"dedicatedHours"`
	Remarks        *string             `json:"remarks"`

	// AIMS
	ConductorLines decimal.NullDecimal `json:"conductorLines"`
	NumberOfPoints decimal.NullDecimal `json:"numberOfPoints"`

	// IVMS
	BenchmarkForTask   *string             `json:"benchmarkForTask"`
	LineMiles          decimal.NullDecimal `json:"lineMiles"`
	LineMilesH1V1      decimal.NullDecimal `json:"lineMilesH1V1"`
	DedicatedHoursH1V1 decimal.NullDecimal `json:"dedicatedHoursH1V1"`
	LineMilesH1V0      decimal.NullDecimal `json:"lineMilesH1V0"`
	DedicatedHoursH1V0 decimal.NullDecimal `json:"dedicatedHoursH1V0"`

	// Vendor POC
	TrackerUpdating        *bool   `json:"trackerUpdating"`
	DataQualityChecking    *bool   `json:"dataQualityChecking"`
	TrainingFeedback       *bool   `json:"trainingFeedback"`
	TrnRemarks             *string `json:"trnRemarks"`
	Documentation          *bool   `json:"documentation"`
	DocRemark              *string `json:"docRemark"`
	OthersMisc             *string `json:"othersMisc"`
	UpdatedInProdQCTracker *bool   `json:"updatedInProdQCTracker"`

	// ISMS
	SiteName              *string             `json:"siteName"`
	AreaHectares          decimal.NullDecimal `json:"areaHectares"`
	PolygonFeatureCount   decimal.NullDecimal `json:"polygonFeatureCount"`
	PolylineFeatureCount  decimal.NullDecimal `json:"polylineFeatureCount"`
	PointFeatureCount     decimal.NullDecimal `json:"pointFeatureCount"`
	SpentHoursOnAboveTask decimal.NullDecimal `json:"spentHoursOnAboveTask"`
	Density               decimal.NullDecimal `json:"density"`

	// RSMS
	Time decimal.NullDecimal `json:"time"`
}

// TaskName prefers task over the older subTask key.
func (p TrackerProject) TaskName() *string {
	if p.Task != nil && *p.Task != "" {
		return p.Task
	}
	return p.SubTask
}

// TrackerRow is one persisted tracker row. Email always comes from the authenticated caller.
type TrackerRow struct {
	ID                string
	Email             string
	ActivityDate      time.Time
	ModeOfFunctioning *string
	PodName           *string
	Product           *string
	Project           TrackerProject
	MetadataJSON      []byte
}

// Rows expands the submission into one row per project, stamped with the submitter email.
// newID supplies row ids.
func (s TrackerSubmission) Rows(email string, metadata []byte, newID func() string) ([]TrackerRow, error) {
	date, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return nil, err
	}

	rows := make([]TrackerRow, 0, len(s.Projects))
	for _, p := range s.Projects {
		rows = append(rows, TrackerRow{
			ID:                newID(),
			Email:             email,
			ActivityDate:      date,
			ModeOfFunctioning: s.ModeOfFunctioning,
			PodName:           s.PodName,
			Product:           s.Product,
			Project:           p,
			MetadataJSON:      metadata,
		})
	}

	return rows, nil
}

// DailyEntry is a daily_activity_new submission. At most one per submitter per activity date.
type DailyEntry struct {
	ActivityDate       string              `json:"activityDate" binding:"required,datetime=2006-01-02"`
	Name               *string             `json:"name" binding:"omitempty,max=150"`
	ModeOfFunctioning  *string             `json:"modeOfFunctioning" binding:"omitempty,max=100"`
	PodName            *string             `json:"podName" binding:"omitempty,max=100"`
	ProjectName        *string             `json:"projectName" binding:"omitempty,max=255"`
	NatureOfWork       *string             `json:"natureOfWork" binding:"omitempty,max=255"`
	Task               *string             `json:"task"`
	DedicatedHours     decimal.NullDecimal `json:"dedicatedHours"`
	DedicatedHoursH1V1 decimal.NullDecimal `json:"dedicatedHoursH1V1"`
	DedicatedHoursH1V0 decimal.NullDecimal `json:"dedicatedHoursH1V0"`
	LineMiles          decimal.NullDecimal `json:"lineMiles"`
	LineMilesH1V1      decimal.NullDecimal `json:"lineMilesH1V1"`
	LineMilesH1V0      decimal.NullDecimal `json:"lineMilesH1V0"`
	BenchmarkForTask   *string             `json:"benchmarkForTask" binding:"omitempty,max=255"`
	Remarks            *string             `json:"remarks"`
}

func (e DailyEntry) Date() (time.Time, error) {
	return time.Parse(DateLayout, e.ActivityDate)
}

// ResourceEntry is a resource or resource planning submission.
type ResourceEntry struct {
	Date              string  `json:"date" binding:"required,datetime=2006-01-02"`
	PodName           *string `json:"podName" binding:"omitempty,max=100"`
	ModeOfFunctioning *string `json:"modeOfFunctioning" binding:"omitempty,max=100"`
	Product           *string `json:"product" binding:"omitempty,max=100"`
	ProjectName       *string `json:"projectName" binding:"omitempty,max=255"`
	NatureOfWork      *string `json:"natureOfWork" binding:"omitempty,max=255"`
	Task              *string `json:"task" binding:"omitempty,max=255"`
}

func (e ResourceEntry) ActivityDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}
