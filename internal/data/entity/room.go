package entity

import "github.com/shopspring/decimal"

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
	RoomTypeDeluxe RoomType = "deluxe"
)

type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "available"
	RoomStatusOccupied    RoomStatus = "occupied"
	RoomStatusMaintenance RoomStatus = "maintenance"
	RoomStatusCleaning    RoomStatus = "cleaning"
)

var RoomStatuses = []RoomStatus{
	RoomStatusAvailable,
	RoomStatusOccupied,
	RoomStatusMaintenance,
	RoomStatusCleaning,
}

var RoomTypes = []RoomType{RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe}

type Room struct {
	BaseNoDelete
	RoomNumber    string          `db:"room_number"`
	Type          RoomType        `db:"type"`
	Status        RoomStatus      `db:"status"`
	Capacity      int             `db:"capacity"`
	PricePerNight decimal.Decimal `db:"price_per_night"`
	Description   *string         `db:"description"`
	Amenities     map[string]any  `db:"amenities"`
	Images        []string        `db:"images"`
	Floor         *int            `db:"floor"`
	SizeSqm       *float64        `db:"size_sqm"`
}
