package productrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
	"gocatalog/internal/pkg/logger"
)

// productSelect é a consulta base de leitura: o produto com as três tabelas
// de extensão em LEFT JOIN. Apenas as colunas da categoria do produto vêm
// preenchidas; o restante chega NULL e é ignorado no despacho por tipo.
const productSelect = `
        SELECT p.id, p.sku, p.name, p.price, p.type, p.created_at, p.updated_at,
               d.size, b.weight, f.height, f.width, f.length
        FROM products p
        LEFT JOIN dvds d ON p.id = d.product_id
        LEFT JOIN books b ON p.id = b.product_id
        LEFT JOIN furniture f ON p.id = f.product_id`

// ProductRepository implementa a interface domain.ProductRepository sobre o
// PostgreSQL, traduzindo produtos de/para o schema normalizado (tabela base
// + tabela de extensão por categoria).
type ProductRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// A conexão é injetada pelo main; o repositório não abre nem fecha pools.
func NewProductRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// rowScanner cobre *sql.Row e *sql.Rows para compartilhar o mapeamento.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct mapeia uma linha do productSelect para a entidade, despachando
// a extração de atributos pela coluna type.
func scanProduct(s rowScanner) (domain.Product, error) {
	var product domain.Product
	var size sql.NullInt64
	var weight, height, width, length sql.NullFloat64

	err := s.Scan(
		&product.ID, &product.SKU, &product.Name, &product.Price, &product.Type,
		&product.CreatedAt, &product.UpdatedAt,
		&size, &weight, &height, &width, &length,
	)
	if err != nil {
		return domain.Product{}, err
	}

	switch product.Type {
	case domain.TypeDVD:
		product.DVD = &domain.DVDAttributes{Size: size.Int64}
	case domain.TypeBook:
		product.Book = &domain.BookAttributes{Weight: weight.Float64}
	case domain.TypeFurniture:
		product.Furniture = &domain.FurnitureAttributes{
			Height: height.Float64,
			Width:  width.Float64,
			Length: length.Float64,
		}
	}

	return product, nil
}

// FindAll lista o catálogo completo na ordem de inserção (id base crescente).
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, productSelect+` ORDER BY p.id`)
	if err != nil {
		r.logger.Error("Falha ao executar a consulta de listagem de produtos.", err)
		return nil, apperror.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear produto na iteração de FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear produtos do DB", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de produtos.", err)
		return nil, apperror.NewDBError("Erro após iteração de produtos", err)
	}

	r.logger.Debug("FindAll concluído.", map[string]interface{}{"total_products": len(products)})
	return products, nil
}

// FindBySKU busca um único produto pelo SKU (único na tabela base).
func (r *ProductRepository) FindBySKU(ctx context.Context, sku string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout, productSelect+` WHERE p.sku = $1 LIMIT 1`, sku)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com SKU '%s' não encontrado.", sku))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto", err)
	}

	return product, nil
}

// ExistsBySKU faz a checagem leve de existência usada pelo check-sku.
func (r *ProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM products WHERE sku = $1`, sku).Scan(&count)
	if err != nil {
		r.logger.Error("Falha ao verificar existência de SKU.", err)
		return false, apperror.NewDBError("Falha ao verificar SKU", err)
	}

	return count > 0, nil
}

// Save persiste um novo produto em uma única transação: insere a linha base,
// e com o id gerado insere a linha na tabela de extensão da categoria.
// Qualquer falha desfaz a transação inteira; a linha base nunca fica sem a
// sua extensão.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de criação de produto.", err)
		return 0, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	const baseInsert = `
        INSERT INTO products (sku, name, price, type)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	var productID int64
	err = tx.QueryRowContext(ctxTimeout, baseInsert,
		product.SKU, product.Name, product.Price, product.Type,
	).Scan(&productID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug("SKU duplicado rejeitado pela constraint UNIQUE.", map[string]interface{}{"sku": product.SKU})
			return 0, apperror.NewDuplicateKeyError(fmt.Sprintf("Já existe um produto com o SKU '%s'.", product.SKU))
		}
		r.logger.Error("Falha ao inserir produto na tabela base.", err)
		return 0, apperror.NewDBError("Falha ao inserir produto", err)
	}

	switch product.Type {
	case domain.TypeDVD:
		_, err = tx.ExecContext(ctxTimeout,
			`INSERT INTO dvds (product_id, size) VALUES ($1, $2)`,
			productID, product.DVD.Size)
	case domain.TypeBook:
		_, err = tx.ExecContext(ctxTimeout,
			`INSERT INTO books (product_id, weight) VALUES ($1, $2)`,
			productID, product.Book.Weight)
	case domain.TypeFurniture:
		_, err = tx.ExecContext(ctxTimeout,
			`INSERT INTO furniture (product_id, height, width, length) VALUES ($1, $2, $3, $4)`,
			productID, product.Furniture.Height, product.Furniture.Width, product.Furniture.Length)
	}
	if err != nil {
		r.logger.Error("Falha ao inserir atributos na tabela de extensão.", err)
		return 0, apperror.NewDBError("Falha ao inserir atributos do produto", err)
	}

	if err = tx.Commit(); err != nil {
		// A violação de unicidade pode aparecer apenas no commit, dependendo
		// do nível de isolamento.
		if isUniqueViolation(err) {
			return 0, apperror.NewDuplicateKeyError(fmt.Sprintf("Já existe um produto com o SKU '%s'.", product.SKU))
		}
		r.logger.Error("Falha ao commitar transação de criação de produto.", err)
		return 0, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Produto persistido.", map[string]interface{}{"product_id": productID, "sku": product.SKU, "type": string(product.Type)})
	return productID, nil
}

// DeleteBySKU remove um produto pelo SKU. A linha de extensão cai junto via
// ON DELETE CASCADE declarado no schema, então um único DELETE basta; o SKU
// é único, logo RowsAffected é 0 ou 1.
func (r *ProductRepository) DeleteBySKU(ctx context.Context, sku string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE sku = $1`, sku)
	if err != nil {
		r.logger.Error("Falha ao deletar produto do DB.", err)
		return false, apperror.NewDBError("Falha ao deletar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após DeleteBySKU.", err)
		return false, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	r.logger.Info("DeleteBySKU concluído.", map[string]interface{}{"sku": sku, "deleted": rowsAffected > 0})
	return rowsAffected > 0, nil
}

// DeleteManyBySKU remove em massa os produtos do conjunto de SKUs, em uma
// única transação. As tabelas de extensão são limpas antes da tabela base,
// porque o subselect em products precisa ainda enxergar as linhas que estão
// sendo removidas; o DELETE de cada categoria roda mesmo quando ela não tem
// correspondência no conjunto, o que é inofensivo.
func (r *ProductRepository) DeleteManyBySKU(ctx context.Context, skus []string) (int64, error) {
	if len(skus) == 0 {
		// Um IN-list vazio é SQL inválido; nada a deletar.
		return 0, nil
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de exclusão em massa.", err)
		return 0, apperror.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"dvds", "books", "furniture"} {
		query := fmt.Sprintf(
			`DELETE FROM %s WHERE product_id IN (SELECT id FROM products WHERE sku = ANY($1))`, table)
		if _, err = tx.ExecContext(ctxTimeout, query, pq.Array(skus)); err != nil {
			r.logger.Error("Falha ao limpar tabela de extensão na exclusão em massa.", err)
			return 0, apperror.NewDBError(fmt.Sprintf("Falha ao deletar de %s", table), err)
		}
	}

	result, err := tx.ExecContext(ctxTimeout, `DELETE FROM products WHERE sku = ANY($1)`, pq.Array(skus))
	if err != nil {
		r.logger.Error("Falha ao deletar produtos da tabela base.", err)
		return 0, apperror.NewDBError("Falha ao deletar produtos", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas na exclusão em massa.", err)
		return 0, apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar transação de exclusão em massa.", err)
		return 0, apperror.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Exclusão em massa concluída.", map[string]interface{}{"requested": len(skus), "deleted": deleted})
	return deleted, nil
}

// isUniqueViolation identifica a violação de constraint UNIQUE do Postgres
// (código 23505), que o driver expõe em *pq.Error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
