package repositories

import (
	"context"

	"staffhub/internal/models"
	"staffhub/internal/tenantdb"
)

type employeeRepo struct{}

func NewEmployeeRepo() IdentityLookup {
	return &employeeRepo{}
}

func (r *employeeRepo) FindByEmail(ctx context.Context, conn tenantdb.Conn, email string) (models.Identity, error) {
	employee := &models.Employee{}
	query := `
		SELECT id, email, password_hash, first_name, last_name, status, created_at, updated_at
		FROM employees
		WHERE email = $1
	`
	err := conn.QueryRow(ctx, query, email).Scan(&employee.ID, &employee.Email, &employee.PasswordHash, &employee.FirstName, &employee.LastName, &employee.Status, &employee.CreatedAt, &employee.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return employee, nil
}
