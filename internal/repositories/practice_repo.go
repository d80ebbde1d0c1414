package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"laine/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PracticeRepository interface {
	Create(ctx context.Context, practice *models.Practice) error
	GetByOrganizationID(ctx context.Context, orgID string) (*models.Practice, error)
	UpdateByOrganizationID(ctx context.Context, practice *models.Practice) (*models.Practice, error)
	DeleteByOrganizationID(ctx context.Context, orgID string) error
}

// practiceColumns is the column order used by every query and by practiceArgs
var practiceColumns = []string{
	"id",
	"clerk_organization_id",
	"name",
	"address",
	"city",
	"state",
	"location_context",
	"directions",
	"doctors",
	"hygienists",
	"tone",
	"off_topic_response",
	"sees_kids",
	"accepts_walk_ins",
	"vendor_call_policy",
	"offers_same_day_treatment",
	"new_patient_flow",
	"new_patient_special_offer",
	"new_patient_special_details",
	"mention_special_offer_proactively",
	"in_network_ppos",
	"delta_dental_tier",
	"delta_dental_out_of_network_details",
	"accepts_medicaid",
	"medicaid_state_name",
	"medicaid_not_accepted_phrase",
	"accepts_hmo_dmo",
	"hmo_dmo_not_accepted_phrase",
	"dual_insurance_notes",
	"in_house_savings_plan_details",
	"collect_insurance_company",
	"collect_subscriber_name",
	"collect_subscriber_dob",
	"collect_insurance_id",
	"collect_group_id",
	"collect_subscriber_employer",
	"confirm_name_spelling",
	"validate_numbers",
	"offered_appointment_types",
	"scheduling_timeframe_limit",
	"scheduling_priority",
	"appointment_offer_sequence",
	"prompt_for_family_scheduling",
	"handle_insurance_not_on_file",
	"handle_quote_request",
	"handle_general_question",
	"handle_specific_provider_request",
	"created_at",
	"updated_at",
}

var (
	practiceSelectList = strings.Join(practiceColumns, ", ")

	insertPracticeQuery = fmt.Sprintf(`
		INSERT INTO practices (%s)
		VALUES (%s)
		ON CONFLICT (clerk_organization_id) DO NOTHING
	`, practiceSelectList, placeholders(1, len(practiceColumns)))

	selectPracticeByOrgQuery = fmt.Sprintf(`
		SELECT %s
		FROM practices
		WHERE clerk_organization_id = $1
	`, practiceSelectList)

	updatePracticeByOrgQuery = buildUpdatePracticeQuery()
)

// buildUpdatePracticeQuery overwrites every editable column. Identity,
// tenant and created_at are never changed; updated_at is set by the database.
func buildUpdatePracticeQuery() string {
	sets := make([]string, 0, len(practiceColumns))
	n := 2
	for _, col := range practiceColumns {
		switch col {
		case "id", "clerk_organization_id", "created_at":
			continue
		case "updated_at":
			sets = append(sets, "updated_at = NOW()")
		default:
			sets = append(sets, fmt.Sprintf("%s = $%d", col, n))
			n++
		}
	}
	return fmt.Sprintf(`
		UPDATE practices
		SET %s
		WHERE clerk_organization_id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), practiceSelectList)
}

func placeholders(from, count int) string {
	ph := make([]string, count)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}

type practiceRepo struct {
	db DBTX
}

func NewPracticeRepo(db DBTX) PracticeRepository {
	return &practiceRepo{db: db}
}

// Create inserts the practice. A second practice for the same organization
// is rejected with ErrPracticeExists.
func (r *practiceRepo) Create(ctx context.Context, practice *models.Practice) error {
	if practice.ID == uuid.Nil {
		practice.ID = uuid.New()
	}
	now := time.Now().UTC()
	practice.CreatedAt = now
	practice.UpdatedAt = now

	tag, err := r.db.Exec(ctx, insertPracticeQuery, practiceArgs(practice)...)
	if err != nil {
		return fmt.Errorf("failed to insert practice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPracticeExists
	}
	return nil
}

func (r *practiceRepo) GetByOrganizationID(ctx context.Context, orgID string) (*models.Practice, error) {
	practice, err := scanPractice(r.db.QueryRow(ctx, selectPracticeByOrgQuery, orgID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPracticeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get practice: %w", err)
	}
	return practice, nil
}

// UpdateByOrganizationID overwrites the stored practice with every field of
// practice. Fields that are nil or false in practice are cleared.
func (r *practiceRepo) UpdateByOrganizationID(ctx context.Context, practice *models.Practice) (*models.Practice, error) {
	args := []any{practice.ClerkOrganizationID}
	all := practiceArgs(practice)
	for i, col := range practiceColumns {
		switch col {
		case "id", "clerk_organization_id", "created_at", "updated_at":
			continue
		}
		args = append(args, all[i])
	}

	updated, err := scanPractice(r.db.QueryRow(ctx, updatePracticeByOrgQuery, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPracticeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update practice: %w", err)
	}
	return updated, nil
}

func (r *practiceRepo) DeleteByOrganizationID(ctx context.Context, orgID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM practices WHERE clerk_organization_id = $1`, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete practice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPracticeNotFound
	}
	return nil
}

// practiceArgs returns the field values in practiceColumns order
func practiceArgs(p *models.Practice) []any {
	return []any{
		p.ID,
		p.ClerkOrganizationID,
		p.Name,
		p.Address,
		p.City,
		p.State,
		p.LocationContext,
		p.Directions,
		p.Doctors,
		p.Hygienists,
		p.Tone,
		p.OffTopicResponse,
		p.SeesKids,
		p.AcceptsWalkIns,
		p.VendorCallPolicy,
		p.OffersSameDayTreatment,
		p.NewPatientFlow,
		p.NewPatientSpecialOffer,
		p.NewPatientSpecialDetails,
		p.MentionSpecialOfferProactively,
		p.InNetworkPPOs,
		p.DeltaDentalTier,
		p.DeltaDentalOutOfNetworkDetails,
		p.AcceptsMedicaid,
		p.MedicaidStateName,
		p.MedicaidNotAcceptedPhrase,
		p.AcceptsHMODMO,
		p.HMODMONotAcceptedPhrase,
		p.DualInsuranceNotes,
		p.InHouseSavingsPlanDetails,
		p.CollectInsuranceCompany,
		p.CollectSubscriberName,
		p.CollectSubscriberDOB,
		p.CollectInsuranceID,
		p.CollectGroupID,
		p.CollectSubscriberEmployer,
		p.ConfirmNameSpelling,
		p.ValidateNumbers,
		p.OfferedAppointmentTypes,
		p.SchedulingTimeframeLimit,
		p.SchedulingPriority,
		p.AppointmentOfferSequence,
		p.PromptForFamilyScheduling,
		p.HandleInsuranceNotOnFile,
		p.HandleQuoteRequest,
		p.HandleGeneralQuestion,
		p.HandleSpecificProviderRequest,
		p.CreatedAt,
		p.UpdatedAt,
	}
}

func scanPractice(row pgx.Row) (*models.Practice, error) {
	p := &models.Practice{}
	err := row.Scan(
		&p.ID,
		&p.ClerkOrganizationID,
		&p.Name,
		&p.Address,
		&p.City,
		&p.State,
		&p.LocationContext,
		&p.Directions,
		&p.Doctors,
		&p.Hygienists,
		&p.Tone,
		&p.OffTopicResponse,
		&p.SeesKids,
		&p.AcceptsWalkIns,
		&p.VendorCallPolicy,
		&p.OffersSameDayTreatment,
		&p.NewPatientFlow,
		&p.NewPatientSpecialOffer,
		&p.NewPatientSpecialDetails,
		&p.MentionSpecialOfferProactively,
		&p.InNetworkPPOs,
		&p.DeltaDentalTier,
		&p.DeltaDentalOutOfNetworkDetails,
		&p.AcceptsMedicaid,
		&p.MedicaidStateName,
		&p.MedicaidNotAcceptedPhrase,
		&p.AcceptsHMODMO,
		&p.HMODMONotAcceptedPhrase,
		&p.DualInsuranceNotes,
		&p.InHouseSavingsPlanDetails,
		&p.CollectInsuranceCompany,
		&p.CollectSubscriberName,
		&p.CollectSubscriberDOB,
		&p.CollectInsuranceID,
		&p.CollectGroupID,
		&p.CollectSubscriberEmployer,
		&p.ConfirmNameSpelling,
		&p.ValidateNumbers,
		&p.OfferedAppointmentTypes,
		&p.SchedulingTimeframeLimit,
		&p.SchedulingPriority,
		&p.AppointmentOfferSequence,
		&p.PromptForFamilyScheduling,
		&p.HandleInsuranceNotOnFile,
		&p.HandleQuoteRequest,
		&p.HandleGeneralQuestion,
		&p.HandleSpecificProviderRequest,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.InNetworkPPOs == nil {
		p.InNetworkPPOs = []string{}
	}
	if p.OfferedAppointmentTypes == nil {
		p.OfferedAppointmentTypes = []string{}
	}
	return p, nil
}
