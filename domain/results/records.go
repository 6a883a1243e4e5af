// Package results holds the tagged result variants returned by the analysis
// backends. Every variant is validated at the ingestion boundary before the
// correlator sees it.
package results

import "time"

// Kind tags a result set with the backend that produced it
type Kind string

const (
	KindPowerflow   Kind = "powerflow"
	KindEmission    Kind = "emission"
	KindAttack      Kind = "attack"
	KindReliability Kind = "reliability"
)

// Set is one complete result set of a single kind
type Set interface {
	Kind() Kind
}

// PowerflowStatus is the discrete per-node state reported by power-flow
type PowerflowStatus string

const (
	StatusNormal   PowerflowStatus = "normal"
	StatusWarning  PowerflowStatus = "warning"
	StatusCritical PowerflowStatus = "critical"
)

// IsValid returns true if the status is known
func (s PowerflowStatus) IsValid() bool {
	switch s {
	case StatusNormal, StatusWarning, StatusCritical:
		return true
	default:
		return false
	}
}

// PowerflowNode is the power-flow record for one node
type PowerflowNode struct {
	NodeID                  string          `json:"node_id" validate:"required"`
	VoltagePu               float64         `json:"voltage_pu"`
	VoltageKv               float64         `json:"voltage_kv"`
	VoltageDeviationPercent float64         `json:"voltage_deviation_percent"`
	Status                  PowerflowStatus `json:"status" validate:"required,oneof=normal warning critical"`
}

// PowerflowLine is the loading record for one line
type PowerflowLine struct {
	LineID         string          `json:"line_id" validate:"required"`
	LoadingPercent float64         `json:"loading_percent"`
	Status         PowerflowStatus `json:"status" validate:"required,oneof=normal warning critical"`
}

// PowerflowSummary aggregates a power-flow run
type PowerflowSummary struct {
	AverageVoltagePu      float64 `json:"average_voltage_pu"`
	MaxLineLoadingPercent float64 `json:"max_line_loading_percent"`
	TotalNodes            int     `json:"total_nodes"`
	TotalLines            int     `json:"total_lines"`
	Converged             bool    `json:"converged"`
}

// PowerflowResult is the power-flow result set
type PowerflowResult struct {
	Nodes   []PowerflowNode  `json:"nodes" validate:"dive"`
	Lines   []PowerflowLine  `json:"lines" validate:"dive"`
	Summary PowerflowSummary `json:"summary"`
}

// Kind implements Set
func (PowerflowResult) Kind() Kind { return KindPowerflow }

// EmissionRecord is the emission record for one node.
// Negative emissions stand for avoided CO2 (solar, storage).
type EmissionRecord struct {
	NodeID        string  `json:"node_id" validate:"required"`
	NodeType      string  `json:"node_type,omitempty"`
	PowerKw       float64 `json:"power_kw"`
	EnergyKwh     float64 `json:"energy_kwh"`
	EmissionKgCO2 float64 `json:"emission_kg_co2"`
}

// Recommendation is one prioritized ESG improvement
type Recommendation struct {
	Type                  string   `json:"type"`
	Priority              string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	EstimatedReductionTon *float64 `json:"estimated_reduction_ton,omitempty"`
}

// ESGParameters tunes an emissions run
type ESGParameters struct {
	TimeHours            float64 `json:"time_hours" validate:"gt=0"`
	EVChargingHours      float64 `json:"ev_charging_hours" validate:"gte=0"`
	SolarGenerationHours float64 `json:"solar_generation_hours" validate:"gte=0"`
	BatteryCycles        float64 `json:"battery_cycles" validate:"gte=0"`
}

// ESGResult is the emissions result set
type ESGResult struct {
	Timestamp            string           `json:"timestamp"`
	TimeHours            float64          `json:"time_hours"`
	TotalEmissionsKgCO2  float64          `json:"total_emissions_kg_co2"`
	TotalEmissionsTonCO2 float64          `json:"total_emissions_ton_co2"`
	CarbonCreditsTon     float64          `json:"carbon_credits_ton"`
	CarbonCreditValueUSD float64          `json:"carbon_credit_value_usd"`
	ESGScore             float64          `json:"esg_score"`
	NodeEmissions        []EmissionRecord `json:"node_emissions" validate:"dive"`
	Recommendations      []Recommendation `json:"recommendations" validate:"dive"`
}

// Kind implements Set
func (ESGResult) Kind() Kind { return KindEmission }

// PathStep is one traversal in an attack path.
// From may name a pseudo node such as "external" for entry points.
type PathStep struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Layer string `json:"layer,omitempty"`
}

// AttackResult is the outcome of one penetration scenario
type AttackResult struct {
	AttackID        string     `json:"attack_id" validate:"required"`
	Scenario        string     `json:"scenario"`
	ScenarioName    string     `json:"scenario_name"`
	Layer           int        `json:"layer" validate:"gte=0,lte=7"`
	Severity        Severity   `json:"severity" validate:"required,oneof=low medium high critical"`
	Successful      bool       `json:"successful"`
	AffectedNodeIDs []string   `json:"affected_nodes"`
	AffectedEdgeIDs []string   `json:"affected_lines"`
	AttackPath      []PathStep `json:"attack_path" validate:"dive"`
	Impact          string     `json:"impact"`
	Recommendations []string   `json:"recommendations"`
	Timestamp       string     `json:"timestamp"`
}

// PenetrationSummary counts the outcome of a penetration run
type PenetrationSummary struct {
	TotalAttacks            int `json:"total_attacks"`
	Successful              int `json:"successful"`
	Failed                  int `json:"failed"`
	CriticalVulnerabilities int `json:"critical_vulnerabilities"`
	TotalNodes              int `json:"total_nodes"`
	TotalLines              int `json:"total_lines"`
	AffectedNodesCount      int `json:"affected_nodes_count"`
	AffectedLinesCount      int `json:"affected_lines_count"`
}

// PenetrationResult is the attack result set
type PenetrationResult struct {
	Attacks []AttackResult     `json:"attacks" validate:"dive"`
	Summary PenetrationSummary `json:"summary"`
}

// Kind implements Set
func (PenetrationResult) Kind() Kind { return KindAttack }

// Risk is the reliability risk of one node or line
type Risk struct {
	NodeID    string  `json:"node_id,omitempty"`
	LineID    string  `json:"line_id,omitempty"`
	RiskScore float64 `json:"risk_score"`
	RiskLevel string  `json:"risk_level" validate:"omitempty,oneof=low medium high"`
}

// ReliabilitySummary describes the feeder a reliability run was computed for
type ReliabilitySummary struct {
	TotalNodes        int     `json:"total_nodes"`
	TotalLines        int     `json:"total_lines"`
	EstimatedLengthKm float64 `json:"estimated_length_km"`
	ProfileType       string  `json:"profile_type"`
}

// ReliabilityResult is a report only; it is never overlaid on the canvas
type ReliabilityResult struct {
	SAIDI                    float64            `json:"saidi"`
	SAIFI                    float64            `json:"saifi"`
	ExpectedFaultsPerYear    float64            `json:"expected_faults_per_year"`
	AverageRepairTimeMinutes float64            `json:"average_repair_time_minutes"`
	NodeRisks                []Risk             `json:"node_risks" validate:"dive"`
	LineRisks                []Risk             `json:"line_risks" validate:"dive"`
	Summary                  ReliabilitySummary `json:"summary"`
}

// Kind implements Set
func (ReliabilityResult) Kind() Kind { return KindReliability }

// ReliabilityParameters tunes a reliability run
type ReliabilityParameters struct {
	FaultRate  *float64 `json:"fault_rate,omitempty" validate:"omitempty,gte=0"`
	RepairTime *float64 `json:"repair_time,omitempty" validate:"omitempty,gte=0"`
}

// Scenario is one entry of the penetration scenario catalog
type Scenario struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	Layer       int      `json:"layer" validate:"gte=1,lte=7"`
	Severity    Severity `json:"severity" validate:"required,oneof=low medium high critical"`
	Description string   `json:"description"`
}

// LayerGroup is the scenarios of one layer of the 7-layer model
type LayerGroup struct {
	Layer     int        `json:"layer"`
	Name      string     `json:"name"`
	Scenarios []Scenario `json:"scenarios"`
}

// Catalog is the scenario catalog as fetched, with the time it was fetched
type Catalog struct {
	Scenarios []Scenario `json:"scenarios" validate:"dive"`
	FetchedAt time.Time  `json:"fetched_at"`
}
