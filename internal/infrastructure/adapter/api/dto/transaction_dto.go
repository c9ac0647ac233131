package dto

import "github.com/amirhossein-jamali/points-ledger/internal/domain/entity"

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"user_id"`
	Description string `json:"description"`
	PointChange int64  `json:"point_change"`
}

// NewTransactionResponse maps a domain ledger entry to its API representation
func NewTransactionResponse(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		UserID:      tx.UserID,
		Description: tx.Description,
		PointChange: tx.PointChange,
	}
}

// NewTransactionListResponse maps ledger entries in order
func NewTransactionListResponse(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}
