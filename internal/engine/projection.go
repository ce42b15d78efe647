//
//  Copyright © Manetu Inc. All rights reserved.
//

package engine

import (
	"context"
	"sort"

	"github.com/manetu/ptsengine/pkg/common"
	"github.com/manetu/ptsengine/pkg/sim/catalog"
	"github.com/manetu/ptsengine/pkg/sim/model"
	"github.com/manetu/ptsengine/pkg/sim/permissions"
)

// subjectState is the simulated access held by one subject: roles, business
// functions, and authorized transaction codes.
type subjectState struct {
	roles        map[string]struct{}
	functions    map[string]struct{}
	transactions map[string]struct{}
}

func newSubjectState() *subjectState {
	return &subjectState{
		roles:        map[string]struct{}{},
		functions:    map[string]struct{}{},
		transactions: map[string]struct{}{},
	}
}

// changeDelta summarizes the effect of applying one change to the projection:
// which functions and transactions were granted or revoked, per subject and
// in aggregate.
type changeDelta struct {
	subjects          []string
	addedFunctions    map[string]struct{}
	removedFunctions  map[string]struct{}
	addedTransactions map[string]struct{}
	removedTxns       map[string]struct{}
	unchangedCount    int
}

func (d *changeDelta) empty() bool {
	return len(d.addedFunctions) == 0 && len(d.removedFunctions) == 0 &&
		len(d.addedTransactions) == 0 && len(d.removedTxns) == 0
}

// projection is the cumulative simulated permission state for one run.
// Changes are applied in scenario-declared order because later changes may
// depend on the cumulative effect of earlier ones. Baseline grants are
// fetched lazily from the permission source, once per subject per run.
type projection struct {
	cat     *catalog.Catalog
	source  permissions.Service
	signals map[string]*subjectState
}

func newProjection(cat *catalog.Catalog, source permissions.Service) *projection {
	return &projection{
		cat:     cat,
		source:  source,
		signals: map[string]*subjectState{},
	}
}

// resolveRole expands a role identifier into the functions and transactions
// it confers. Roles without a catalog definition confer a single function
// named after the role itself, so escalation and conflict heuristics still
// apply to undefined roles.
func (p *projection) resolveRole(role string) (functions, transactions []string) {
	if def, ok := p.cat.Role(role); ok {
		return def.Functions, def.Transactions
	}
	return []string{role}, nil
}

// state returns the simulated state for a subject, loading the baseline from
// the permission source on first access.
func (p *projection) state(ctx context.Context, userID string) (*subjectState, *common.SimError) {
	if st, ok := p.signals[userID]; ok {
		return st, nil
	}

	grants, err := p.source.GetGrants(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := newSubjectState()
	for _, g := range grants {
		if g.Role != "" {
			st.roles[g.Role] = struct{}{}
			functions, transactions := p.resolveRole(g.Role)
			for _, f := range functions {
				st.functions[f] = struct{}{}
			}
			for _, txn := range transactions {
				st.transactions[txn] = struct{}{}
			}
		}
		for _, f := range g.Functions {
			st.functions[f] = struct{}{}
		}
		for _, txn := range g.Transactions {
			st.transactions[txn] = struct{}{}
		}
	}

	p.signals[userID] = st
	return st, nil
}

// grantsOf flattens the access conferred by a change: the role's functions
// and transactions plus any explicit permission descriptors.
func (p *projection) grantsOf(change *model.AccessChange) (functions, transactions []string) {
	if change.Role != "" {
		functions, transactions = p.resolveRole(change.Role)
	}
	for _, perm := range change.Permissions {
		if perm.Function != "" {
			functions = append(functions, perm.Function)
		}
		transactions = append(transactions, perm.Transactions...)
	}
	return functions, transactions
}

// apply folds the change into the projection and returns its delta. The
// projection is mutated; the caller is responsible for applying changes in
// scenario order.
func (p *projection) apply(ctx context.Context, change *model.AccessChange) (*changeDelta, *common.SimError) {
	delta := &changeDelta{
		subjects:          change.Subjects(),
		addedFunctions:    map[string]struct{}{},
		removedFunctions:  map[string]struct{}{},
		addedTransactions: map[string]struct{}{},
		removedTxns:       map[string]struct{}{},
	}

	functions, transactions := p.grantsOf(change)

	for _, userID := range delta.subjects {
		st, err := p.state(ctx, userID)
		if err != nil {
			return nil, err
		}

		if change.Kind.Additive() {
			if change.Role != "" {
				st.roles[change.Role] = struct{}{}
			}
			for _, f := range functions {
				if _, held := st.functions[f]; held {
					delta.unchangedCount++
					continue
				}
				st.functions[f] = struct{}{}
				delta.addedFunctions[f] = struct{}{}
			}
			for _, txn := range transactions {
				if _, held := st.transactions[txn]; held {
					delta.unchangedCount++
					continue
				}
				st.transactions[txn] = struct{}{}
				delta.addedTransactions[txn] = struct{}{}
			}
			continue
		}

		// revocation
		if change.Role != "" {
			delete(st.roles, change.Role)
		}
		for _, f := range functions {
			if _, held := st.functions[f]; !held {
				delta.unchangedCount++
				continue
			}
			delete(st.functions, f)
			delta.removedFunctions[f] = struct{}{}
		}
		for _, txn := range transactions {
			if _, held := st.transactions[txn]; !held {
				delta.unchangedCount++
				continue
			}
			delete(st.transactions, txn)
			delta.removedTxns[txn] = struct{}{}
		}
	}

	return delta, nil
}

// authorized reports whether the subject's simulated permission state allows
// the transaction code, along with the permission entries consulted.
func (p *projection) authorized(ctx context.Context, userID, transactionCode string) (bool, []string, *common.SimError) {
	st, err := p.state(ctx, userID)
	if err != nil {
		return false, nil, err
	}

	consulted := make([]string, 0, len(st.roles)+len(st.transactions))
	for _, role := range sortedKeys(st.roles) {
		consulted = append(consulted, "role:"+role)
	}
	for _, txn := range sortedKeys(st.transactions) {
		consulted = append(consulted, "transaction:"+txn)
	}

	_, ok := st.transactions[transactionCode]
	return ok, consulted, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
