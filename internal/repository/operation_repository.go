package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/crypto"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
)

// OperationRepository provides data access methods for the operation table.
// Monetary columns are stored as fernet tokens; the repository encrypts on
// write and decrypts on read so callers only ever see plaintext decimals.
type OperationRepository struct {
	db     *sql.DB
	cipher *crypto.Cipher
}

// NewOperationRepository creates a new OperationRepository with the provided
// database connection and field cipher.
func NewOperationRepository(db *sql.DB, cipher *crypto.Cipher) *OperationRepository {
	return &OperationRepository{db: db, cipher: cipher}
}

const operationColumns = `
	o.id, o.asset_id, a.asset_type, o.kind,
	o.quantity, o.unit_price, o.total_value, o.fees, o.source_withheld,
	o.date, o.created_at
`

// GetOperations retrieves the full operation history ordered by date, with
// insertion order (created_at, id) breaking same-date ties. This ordering is
// load-bearing: the tax engine replays operations exactly in this sequence.
func (r *OperationRepository) GetOperations() ([]model.Operation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operation o
		JOIN asset a ON o.asset_id = a.id
		ORDER BY o.date ASC, o.created_at ASC, o.id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation table: %w", err)
	}
	defer rows.Close()

	operations := []model.Operation{}

	for rows.Next() {
		op, err := r.scanOperation(rows.Scan)
		if err != nil {
			return nil, err
		}
		operations = append(operations, op)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation table: %w", err)
	}

	return operations, nil
}

// GetOperation retrieves a single operation by its ID.
func (r *OperationRepository) GetOperation(operationID string) (model.Operation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM operation o
		JOIN asset a ON o.asset_id = a.id
		WHERE o.id = ?
	`

	row := r.db.QueryRow(query, operationID)
	op, err := r.scanOperation(row.Scan)
	if err == sql.ErrNoRows {
		return model.Operation{}, apperrors.ErrOperationNotFound
	}
	if err != nil {
		return model.Operation{}, err
	}

	return op, nil
}

// InsertOperation encrypts the monetary fields and stores a new operation.
func (r *OperationRepository) InsertOperation(ctx context.Context, op *model.Operation) error {
	encrypted, err := r.encryptFields(op)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO operation (id, asset_id, kind, quantity, unit_price, total_value, fees, source_withheld, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		op.ID,
		op.AssetID,
		op.Kind.String(),
		encrypted.quantity,
		encrypted.unitPrice,
		encrypted.totalValue,
		encrypted.fees,
		encrypted.sourceWithheld,
		op.Date.Format("2006-01-02"),
		op.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	return nil
}

// DeleteOperation removes an operation by ID.
func (r *OperationRepository) DeleteOperation(ctx context.Context, operationID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM operation WHERE id = ?`, operationID)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrOperationNotFound
	}

	return nil
}

type encryptedFields struct {
	quantity       string
	unitPrice      string
	totalValue     string
	fees           string
	sourceWithheld string
}

func (r *OperationRepository) encryptFields(op *model.Operation) (encryptedFields, error) {
	var enc encryptedFields
	var err error

	if enc.quantity, err = r.cipher.EncryptDecimal(op.Quantity); err != nil {
		return enc, err
	}
	if enc.unitPrice, err = r.cipher.EncryptDecimal(op.UnitPrice); err != nil {
		return enc, err
	}
	if enc.totalValue, err = r.cipher.EncryptDecimal(op.TotalValue); err != nil {
		return enc, err
	}
	if enc.fees, err = r.cipher.EncryptDecimal(op.Fees); err != nil {
		return enc, err
	}
	if enc.sourceWithheld, err = r.cipher.EncryptDecimal(op.SourceWithheld); err != nil {
		return enc, err
	}

	return enc, nil
}

// scanOperation reads one operation row and decrypts its monetary fields.
func (r *OperationRepository) scanOperation(scan func(...any) error) (model.Operation, error) {
	var op model.Operation
	var assetTypeStr, kindStr, dateStr, createdAtStr string
	var enc encryptedFields

	err := scan(
		&op.ID,
		&op.AssetID,
		&assetTypeStr,
		&kindStr,
		&enc.quantity,
		&enc.unitPrice,
		&enc.totalValue,
		&enc.fees,
		&enc.sourceWithheld,
		&dateStr,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Operation{}, err
	}
	if err != nil {
		return model.Operation{}, fmt.Errorf("failed to scan operation table results: %w", err)
	}

	if op.AssetType, err = model.ParseAssetType(assetTypeStr); err != nil {
		return model.Operation{}, fmt.Errorf("failed to parse asset type: %w", err)
	}
	if op.Kind, err = model.ParseOperationKind(kindStr); err != nil {
		return model.Operation{}, fmt.Errorf("failed to parse operation kind: %w", err)
	}
	if op.Date, err = ParseTime(dateStr); err != nil {
		return model.Operation{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if op.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Operation{}, fmt.Errorf("failed to parse date: %w", err)
	}

	if op.Quantity, err = r.cipher.DecryptDecimal(enc.quantity); err != nil {
		return model.Operation{}, fmt.Errorf("operation %s quantity: %w", op.ID, err)
	}
	if op.UnitPrice, err = r.cipher.DecryptDecimal(enc.unitPrice); err != nil {
		return model.Operation{}, fmt.Errorf("operation %s unit price: %w", op.ID, err)
	}
	if op.TotalValue, err = r.cipher.DecryptDecimal(enc.totalValue); err != nil {
		return model.Operation{}, fmt.Errorf("operation %s total value: %w", op.ID, err)
	}
	if op.Fees, err = r.cipher.DecryptDecimal(enc.fees); err != nil {
		return model.Operation{}, fmt.Errorf("operation %s fees: %w", op.ID, err)
	}
	if op.SourceWithheld, err = r.cipher.DecryptDecimal(enc.sourceWithheld); err != nil {
		return model.Operation{}, fmt.Errorf("operation %s source withheld: %w", op.ID, err)
	}

	return op, nil
}
