package core

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Store is the in-memory single source of truth for all extracted records.
// Mutations are funneled through AppendBatch, the Edit* methods, and Clear;
// every mutation runs to completion under the mutex, so edits and appends
// never interleave. Records live until Clear — there is no other deletion
// path and no persistence.
//
// Products and customers are identified by their display name (scoped to
// the source file for products, unscoped for customers). Renaming via an
// edit therefore merges or splits groups; that is the intended semantics,
// inherited from the upstream behavior this store models.
type Store struct {
	mu        sync.Mutex
	invoices  []InvoiceRecord
	products  []ProductRecord
	customers []CustomerRecord
	loading   bool
	lastError string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// AppendBatch unconditionally appends every record in the batch to its
// collection. No merging or dedup happens here; aggregates are brought back
// in line lazily by the recomputation inside the Edit* methods.
func (s *Store) AppendBatch(b Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, b.Invoices...)
	s.products = append(s.products, b.Products...)
	s.customers = append(s.customers, b.Customers...)
}

// EditInvoice replaces the invoice with the same ID and reconciles every
// record that shares the renamed product or customer:
//
//   - A changed ProductName renames every invoice row carrying the old name
//     within the same source file, renames the matching product rows, and
//     recomputes their derived quantity.
//   - A changed CustomerName renames every invoice row carrying the old name
//     across all source files, renames the matching customer rows, and
//     recomputes their derived purchase total.
//   - The purchase total of the post-edit customer is recomputed even when
//     the name did not change, so TotalAmount edits stay consistent.
//
// An unknown ID is a silent no-op.
func (s *Store) EditInvoice(edited InvoiceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(edited.ID)
	if idx < 0 {
		return
	}
	prior := s.invoices[idx]
	s.invoices[idx] = edited

	if prior.ProductName != edited.ProductName {
		s.renameProductLocked(prior.ProductName, prior.SourceFile, edited.ProductName)
	}

	if prior.CustomerName != edited.CustomerName {
		s.renameCustomerLocked(prior.CustomerName, edited.CustomerName)
	}

	// Recompute the aggregate rather than adjusting it incrementally, so a
	// TotalAmount edit on any row lands in the customer total as well.
	if edited.CustomerName != "" {
		total := s.sumPurchasesLocked(edited.CustomerName)
		for i := range s.customers {
			if s.customers[i].CustomerName == edited.CustomerName {
				s.customers[i].TotalPurchaseAmount = total
			}
		}
	}
}

// EditProduct replaces the product with the same ID. A changed Name renames
// every product and invoice row carrying the old name within the same source
// file, then recomputes the derived quantity of the renamed product rows.
// An unknown ID is a silent no-op.
func (s *Store) EditProduct(edited ProductRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(edited.ID)
	if idx < 0 {
		return
	}
	prior := s.products[idx]
	s.products[idx] = edited

	if prior.Name == edited.Name {
		return
	}

	for i := range s.products {
		if s.products[i].Name == prior.Name && s.products[i].SourceFile == prior.SourceFile {
			s.products[i].Name = edited.Name
		}
	}
	for i := range s.invoices {
		if s.invoices[i].ProductName == prior.Name && s.invoices[i].SourceFile == prior.SourceFile {
			s.invoices[i].ProductName = edited.Name
		}
	}
	qty := s.sumQuantityLocked(edited.Name, prior.SourceFile)
	for i := range s.products {
		if s.products[i].Name == edited.Name && s.products[i].SourceFile == prior.SourceFile {
			s.products[i].Quantity = qty
		}
	}
}

// EditCustomer replaces the customer with the same ID. Direct customer edits
// do not cascade into invoices or other customer rows; only invoice-driven
// renames do. An unknown ID is a silent no-op.
func (s *Store) EditCustomer(edited CustomerRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == edited.ID {
			s.customers[i] = edited
			return
		}
	}
}

// Clear empties all three collections and resets the loading and error
// state. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = nil
	s.products = nil
	s.customers = nil
	s.loading = false
	s.lastError = ""
}

// BeginLoading marks the store as loading and reports whether it succeeded.
// It returns false when an extraction is already in flight; callers must not
// start another one.
func (s *Store) BeginLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	s.lastError = ""
	return true
}

// FinishLoading clears the loading flag unconditionally and records the
// extraction error, if any, for display.
func (s *Store) FinishLoading(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
}

// Snapshot returns copies of the three collections plus the loading and
// error flags.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Invoices:  make([]InvoiceRecord, len(s.invoices)),
		Products:  make([]ProductRecord, len(s.products)),
		Customers: make([]CustomerRecord, len(s.customers)),
		IsLoading: s.loading,
		LastError: s.lastError,
	}
	copy(snap.Invoices, s.invoices)
	copy(snap.Products, s.products)
	copy(snap.Customers, s.customers)
	return snap
}

// renameProductLocked rewrites oldName to newName on every invoice and
// product row within sourceFile, then recomputes the derived quantity of the
// renamed product rows from the now-consistent invoice rows.
func (s *Store) renameProductLocked(oldName, sourceFile, newName string) {
	for i := range s.invoices {
		if s.invoices[i].ProductName == oldName && s.invoices[i].SourceFile == sourceFile {
			s.invoices[i].ProductName = newName
		}
	}
	qty := s.sumQuantityLocked(newName, sourceFile)
	for i := range s.products {
		if s.products[i].Name == oldName && s.products[i].SourceFile == sourceFile {
			s.products[i].Name = newName
			s.products[i].Quantity = qty
		}
	}
}

// renameCustomerLocked rewrites oldName to newName on every invoice row
// regardless of source file, then renames the matching customer rows and
// recomputes their purchase totals. Customers are identified by name across
// the whole session, so there is no source-file scoping here.
func (s *Store) renameCustomerLocked(oldName, newName string) {
	for i := range s.invoices {
		if s.invoices[i].CustomerName == oldName {
			s.invoices[i].CustomerName = newName
		}
	}
	total := s.sumPurchasesLocked(newName)
	for i := range s.customers {
		if s.customers[i].CustomerName == oldName {
			s.customers[i].CustomerName = newName
			s.customers[i].TotalPurchaseAmount = total
		}
	}
}

func (s *Store) sumQuantityLocked(productName, sourceFile string) decimal.Decimal {
	sum := decimal.Zero
	for i := range s.invoices {
		if s.invoices[i].ProductName == productName && s.invoices[i].SourceFile == sourceFile {
			sum = sum.Add(s.invoices[i].Quantity)
		}
	}
	return sum
}

func (s *Store) sumPurchasesLocked(customerName string) decimal.Decimal {
	sum := decimal.Zero
	for i := range s.invoices {
		if s.invoices[i].CustomerName == customerName {
			sum = sum.Add(s.invoices[i].TotalAmount)
		}
	}
	return sum
}

func (s *Store) invoiceIndex(id string) int {
	for i := range s.invoices {
		if s.invoices[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}
