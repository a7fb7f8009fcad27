package handler

import (
	"github.com/rl1809/cold-storage/internal/core/domain"
	"github.com/rl1809/cold-storage/internal/core/service"
)

// SubmitEntryHTTPRequest mirrors the intake form. Older clients post the
// column names instead (farmer_name, count_mota, ...); both spellings are
// accepted here and folded into one domain.Intake.
type SubmitEntryHTTPRequest struct {
	OrgID             string  `json:"orgId"`
	UserID            string  `json:"userId"`
	IdempotencyKey    string  `json:"idempotencyKey"`
	FarmerName        string  `json:"farmerName"`
	FatherName        string  `json:"fatherName"`
	FarmerCount       FlexInt `json:"farmerCount"`
	LotBase           string  `json:"lotBase"`
	ActualCount       FlexInt `json:"actualCount"`
	Mota              FlexInt `json:"mota"`
	Gulla             FlexInt `json:"gulla"`
	IsGullaColored    bool    `json:"isGullaColored"`
	KetPeice          FlexInt `json:"ketpeice"`
	IsKetPeiceColored bool    `json:"isKetPeiceColored"`
	Haara             FlexInt `json:"haara"`
	IsMarked          bool    `json:"isMarked"`
	MarkName          string  `json:"markName"`

	legacyIntakeFields
}

type legacyIntakeFields struct {
	LegacyOrgID             string  `json:"org_id"`
	LegacyCreatedBy         string  `json:"created_by"`
	LegacyFarmerName        string  `json:"farmer_name"`
	LegacyFatherName        string  `json:"father_name"`
	LegacyFarmerCount       FlexInt `json:"farmer_count"`
	LegacyLotBase           string  `json:"lot_number_base"`
	LegacyActualCount       FlexInt `json:"actual_count"`
	LegacyMota              FlexInt `json:"count_mota"`
	LegacyGulla             FlexInt `json:"count_gulla"`
	LegacyIsGullaColored    bool    `json:"is_gulla_colored"`
	LegacyKetPeice          FlexInt `json:"count_ketpeice"`
	LegacyIsKetPeiceColored bool    `json:"is_ketpeice_colored"`
	LegacyHaara             FlexInt `json:"count_haara"`
	LegacyIsMarked          bool    `json:"is_marked"`
	LegacyMarkName          string  `json:"mark_name"`
}

// Input resolves the request into the canonical submission. The current
// spelling wins when both are present.
func (r SubmitEntryHTTPRequest) Input() service.SubmitEntryInput {
	l := r.legacyIntakeFields
	actual := pickInt(r.ActualCount, l.LegacyActualCount)

	return service.SubmitEntryInput{
		TenantID:       pickString(r.OrgID, l.LegacyOrgID),
		CreatorID:      pickString(r.UserID, l.LegacyCreatedBy),
		IdempotencyKey: r.IdempotencyKey,
		Intake: domain.Intake{
			FarmerName:        pickString(r.FarmerName, l.LegacyFarmerName),
			FatherName:        pickString(r.FatherName, l.LegacyFatherName),
			FarmerCount:       pickInt(r.FarmerCount, l.LegacyFarmerCount).Int(),
			LotBase:           pickString(r.LotBase, l.LegacyLotBase),
			Mota:              pickInt(r.Mota, l.LegacyMota).Int(),
			Gulla:             pickInt(r.Gulla, l.LegacyGulla).Int(),
			IsGullaColored:    r.IsGullaColored || l.LegacyIsGullaColored,
			KetPeice:          pickInt(r.KetPeice, l.LegacyKetPeice).Int(),
			IsKetPeiceColored: r.IsKetPeiceColored || l.LegacyIsKetPeiceColored,
			Haara:             pickInt(r.Haara, l.LegacyHaara).Int(),
			IsMarked:          r.IsMarked || l.LegacyIsMarked,
			MarkName:          pickString(r.MarkName, l.LegacyMarkName),
			ActualCount:       actual.Ptr(),
		},
	}
}

func pickString(current, legacy string) string {
	if current != "" {
		return current
	}
	return legacy
}

func pickInt(current, legacy FlexInt) FlexInt {
	if current.Set() {
		return current
	}
	return legacy
}
