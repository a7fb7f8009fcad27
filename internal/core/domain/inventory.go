package domain

import (
	"math"
	"strconv"
	"time"
)

// MaxCount is the largest bag or farmer count a ledger column can hold.
const MaxCount = math.MaxInt32

// Intake is the canonical shape of a hand-filled intake form once the
// boundary has resolved field names and numeric strings.
type Intake struct {
	FarmerName        string `validate:"required,notblank,max=255"`
	FatherName        string `validate:"max=255"`
	FarmerCount       int    `validate:"gte=0,lte=2147483647"`
	LotBase           string `validate:"required,max=191"`
	Mota              int    `validate:"gte=0,lte=2147483647"`
	Gulla             int    `validate:"gte=0,lte=2147483647"`
	IsGullaColored    bool
	KetPeice          int `validate:"gte=0,lte=2147483647"`
	IsKetPeiceColored bool
	Haara             int `validate:"gte=0,lte=2147483647"`
	IsMarked          bool
	MarkName          string `validate:"max=255"`

	// ActualCount is optional; when set it must match the category total.
	ActualCount *int
}

// CategoryTotal is the sum of the four bag categories. It is computed in
// int64 so four in-range counts cannot wrap.
func (i Intake) CategoryTotal() int64 {
	return int64(i.Mota) + int64(i.Gulla) + int64(i.KetPeice) + int64(i.Haara)
}

type InventoryEntry struct {
	ID                string    `db:"id" json:"id"`
	OrgID             string    `db:"org_id" json:"org_id"`
	CreatedBy         string    `db:"created_by" json:"created_by"`
	FarmerName        string    `db:"farmer_name" json:"farmer_name"`
	FatherName        string    `db:"father_name" json:"father_name"`
	FarmerCount       int       `db:"farmer_count" json:"farmer_count"`
	LotBase           string    `db:"lot_number_base" json:"lot_number_base"`
	LotIndex          int64     `db:"lot_index" json:"lot_index"`
	FullLotNumber     string    `db:"full_lot_number" json:"full_lot_number"`
	CountMota         int       `db:"count_mota" json:"count_mota"`
	CountGulla        int       `db:"count_gulla" json:"count_gulla"`
	IsGullaColored    bool      `db:"is_gulla_colored" json:"is_gulla_colored"`
	CountKetPeice     int       `db:"count_ketpeice" json:"count_ketpeice"`
	IsKetPeiceColored bool      `db:"is_ketpeice_colored" json:"is_ketpeice_colored"`
	CountHaara        int       `db:"count_haara" json:"count_haara"`
	IsMarked          bool      `db:"is_marked" json:"is_marked"`
	MarkName          string    `db:"mark_name" json:"mark_name"`
	ActualCount       int       `db:"actual_count" json:"actual_count"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// EntryView is a ledger row joined with its creator's display name.
type EntryView struct {
	InventoryEntry
	CreatorName string `db:"creator_name" json:"creator_name"`
}

// FullLotNumber composes the display identifier lotBase.index/farmerCount.
func FullLotNumber(lotBase string, index int64, farmerCount int) string {
	return lotBase + "." + strconv.FormatInt(index, 10) + "/" + strconv.Itoa(farmerCount)
}
