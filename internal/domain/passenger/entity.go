package passenger

import "time"

// Role はアカウントの役割を表す
// 継承階層ではなくロールタグひとつで管理する（予約・決済の経路では仮想ディスパッチは不要）
type Role string

const (
	RolePassenger Role = "PASSENGER"
	RoleAdmin     Role = "ADMIN"
	RoleStaff     Role = "STAFF"
)

// Valid はロールとして有効かを返す
func (r Role) Valid() bool {
	switch r {
	case RolePassenger, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// Passenger は搭乗者アカウントを表す
// 予約は連絡先フィールドをスナップショットとして複製するため、
// ここを後から編集しても過去の予約は変わらない
type Passenger struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	PassportNumber string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPassenger は新しい搭乗者アカウントを作成する
func NewPassenger(name, email, phone, passportNumber string) *Passenger {
	now := time.Now()
	return &Passenger{
		Name:           name,
		Email:          email,
		Phone:          phone,
		PassportNumber: passportNumber,
		Role:           RolePassenger,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate は搭乗者の検証を行う
func (p *Passenger) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Email == "" {
		return ErrEmailRequired
	}
	if !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

// Clone は搭乗者の深いコピーを返す
func (p *Passenger) Clone() *Passenger {
	c := *p
	return &c
}
