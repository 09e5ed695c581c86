package aggregates

// WriteTxOwnership says who opens the transaction around an aggregate write.
type WriteTxOwnership string

// Every aggregate in this service opens its own transaction; callers never pass one in.
const WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"

type ReadPolicy string

const (
	// ReadPolicyInvariantScoped: the write path reads only what its invariant check needs.
	ReadPolicyInvariantScoped ReadPolicy = "invariant_scoped_reads"
	// ReadPolicyTableRepoQueries: the write path reads nothing; listings stay on table repos.
	ReadPolicyTableRepoQueries ReadPolicy = "table_repo_queries"
)

// Contract documents one write boundary. Tables lists every table the transaction may write.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	ReadPolicy       ReadPolicy
	Tables           []string
	Notes            string
}

type Aggregate interface {
	Contract() Contract
}

func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// Writes reports whether table is inside this boundary.
func (c Contract) Writes(table string) bool {
	for _, t := range c.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func AllContracts() []Contract {
	return []Contract{
		NutritionPlanAggregateContract,
		UserStatsAggregateContract,
		PurchaseAggregateContract,
		AccountAggregateContract,
	}
}
