package domain

import (
	"time"

	"github.com/google/uuid"
)

type BikeType string

const (
	BikeTypeMTB    BikeType = "MTB"
	BikeTypeGravel BikeType = "Gravel"
	BikeTypeRuta   BikeType = "Ruta"
)

type BicycleStatus string

const (
	StatusInUse  BicycleStatus = "in_use"
	StatusSold   BicycleStatus = "sold"
	StatusStolen BicycleStatus = "stolen"
)

type WorkshopStatus string

const (
	WorkshopWithOwner      WorkshopStatus = "with_owner"
	WorkshopInWorkshop     WorkshopStatus = "in_workshop"
	WorkshopReadyForPickup WorkshopStatus = "ready_for_pickup"
)

type PurchaseCondition string

const (
	ConditionNew  PurchaseCondition = "new"
	ConditionUsed PurchaseCondition = "used"
)

// Component sub-records keep the camelCase tags of the legacy client; they are
// persisted as snake_case jsonb at the storage boundary.
type Transmission struct {
	Speeds          string `json:"speeds"`
	Shifter         string `json:"shifter"`
	Chain           string `json:"chain"`
	Crankset        string `json:"crankset"`
	BottomBracket   string `json:"bottomBracket"`
	RearDerailleur  string `json:"rearDerailleur"`
	FrontDerailleur string `json:"frontDerailleur,omitempty"`
	Cassette        string `json:"cassette"`
}

type Brakes struct {
	Type      string `json:"type"`
	RotorSize string `json:"rotorSize,omitempty"`
	Model     string `json:"model,omitempty"`
}

type Wheels struct {
	FrontRim  string `json:"frontRim"`
	FrontHub  string `json:"frontHub"`
	RearRim   string `json:"rearRim"`
	RearHub   string `json:"rearHub"`
	Tires     string `json:"tires"`
	WheelSize string `json:"wheelSize"`
}

type Components struct {
	Handlebar string `json:"handlebar"`
	Stem      string `json:"stem"`
	Seatpost  string `json:"seatpost"`
	Saddle    string `json:"saddle"`
	Pedals    string `json:"pedals,omitempty"`
}

// MaintenanceRecord is a legacy entry embedded in the bicycle row. New
// maintenance work lives in the maintenances table.
type MaintenanceRecord struct {
	ID                        string `json:"id,omitempty"`
	Date                      string `json:"date"`
	Description               string `json:"description"`
	Cost                      int64  `json:"cost,omitempty"`
	KilometersAtMaintenance   int    `json:"kilometersAtMaintenance,omitempty"`
	NextMaintenanceKilometers int    `json:"nextMaintenanceKilometers,omitempty"`
}

type PurchaseMethod string

const (
	PurchaseStore           PurchaseMethod = "store"
	PurchaseOnline          PurchaseMethod = "online"
	PurchaseUsedMarketplace PurchaseMethod = "used_marketplace"
	PurchasePrivate         PurchaseMethod = "private"
	PurchaseOther           PurchaseMethod = "other"
)

type PurchaseProof struct {
	ReceiptNumber    string         `json:"receiptNumber,omitempty"`
	Barcode          string         `json:"barcode,omitempty"`
	ReceiptImageURL  string         `json:"receiptImageUrl,omitempty"`
	PurchaseMethod   PurchaseMethod `json:"purchaseMethod,omitempty"`
	SellerInfo       string         `json:"sellerInfo,omitempty"`
	EvidenceImageURLs []string      `json:"evidenceImageUrls"`
}

type Bicycle struct {
	ID                   uuid.UUID           `json:"id"`
	Name                 string              `json:"name" validate:"required,max=120"`
	Brand                string              `json:"brand" validate:"max=80"`
	Model                string              `json:"model" validate:"max=80"`
	BikeType             BikeType            `json:"bike_type" validate:"required,oneof=MTB Gravel Ruta"`
	Status               BicycleStatus       `json:"status" validate:"required,oneof=in_use sold stolen"`
	CurrentStatus        WorkshopStatus      `json:"current_status" validate:"required,oneof=with_owner in_workshop ready_for_pickup"`
	Frame                string              `json:"frame"`
	Fork                 string              `json:"fork"`
	Transmission         Transmission        `json:"transmission"`
	Brakes               Brakes              `json:"brakes"`
	Wheels               Wheels              `json:"wheels"`
	Components           Components          `json:"components"`
	MaintenanceHistory   []MaintenanceRecord `json:"maintenance_history"`
	PurchaseDate         string              `json:"purchase_date"`
	PurchasePrice        int64               `json:"purchase_price" validate:"min=0"`
	PurchaseCondition    PurchaseCondition   `json:"purchase_condition" validate:"omitempty,oneof=new used"`
	ImageURL             string              `json:"image_url,omitempty"`
	TotalKilometers      int                 `json:"total_kilometers" validate:"min=0"`
	DisplayOrder         int                 `json:"display_order"`
	OwnerID              *uuid.UUID          `json:"owner_id,omitempty"`
	Owner                *Owner              `json:"owner,omitempty"`
	SerialNumber         string              `json:"serial_number,omitempty"`
	PurchaseProof        *PurchaseProof      `json:"purchase_proof,omitempty"`
	IdentificationPhotos []string            `json:"identification_photos,omitempty"`
	PhysicalLocation     string              `json:"physical_location,omitempty"`
	ReceptionNotes       string              `json:"reception_notes,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// BicycleFilter narrows a listing. Statuses match either the lifecycle or the
// workshop status field, mirroring the mixed allow-list the views use.
type BicycleFilter struct {
	OwnerID  *uuid.UUID
	Statuses []string
}

// DefaultStatusAllowList applies when the caller sends no explicit status
// filter.
var DefaultStatusAllowList = []string{string(StatusInUse), string(WorkshopInWorkshop)}

func (f BicycleFilter) matchesStatus(b *Bicycle) bool {
	statuses := f.Statuses
	if len(statuses) == 0 {
		statuses = DefaultStatusAllowList
	}
	for _, s := range statuses {
		if s == string(b.Status) || s == string(b.CurrentStatus) {
			return true
		}
	}
	return false
}

// VisibleBicycles keeps the subset of bikes the session may see. Customers
// are pinned to their own records; staff see everything, optionally narrowed
// by the filter. Advisory only: row-level policies at the store are the
// authority.
func VisibleBicycles(session *Session, bikes []*Bicycle, filter BicycleFilter) []*Bicycle {
	visible := make([]*Bicycle, 0, len(bikes))
	caps := CapabilitiesFor(session.Role)
	for _, b := range bikes {
		if !caps.CanViewAllBikes {
			if b.OwnerID == nil || *b.OwnerID != session.OwnerID {
				continue
			}
		} else {
			if filter.OwnerID != nil && (b.OwnerID == nil || *b.OwnerID != *filter.OwnerID) {
				continue
			}
			if !filter.matchesStatus(b) {
				continue
			}
		}
		visible = append(visible, b)
	}
	return visible
}

// ReorderEntry is one row of a bulk display-order update.
type ReorderEntry struct {
	ID           uuid.UUID `json:"id"`
	DisplayOrder int       `json:"display_order"`
}
