package domain

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Hash         string `db:"password_hash" json:"-"`
	Address      string `db:"address" json:"address"`
	Phone        string `db:"phone" json:"phone"`
	Role         string `db:"role" json:"role"`
	ProfileImage string `db:"profile_image_url" json:"profileImage"`
	CreatedAt    string `db:"created_at" json:"createdAt"`
}
