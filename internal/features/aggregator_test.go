package features

import (
	"math"
	"reflect"
	"testing"

	"wallet-credit-score/internal/domain"
)

// Helper to create a transaction with the fields the aggregator reads.
func makeTx(wallet, action, amount, asset string, ts int64) domain.Transaction {
	return domain.Transaction{
		UserWallet: wallet,
		TxHash:     wallet + "-" + action,
		Timestamp:  ts,
		Action:     action,
		ActionData: domain.ActionData{
			Amount:      amount,
			AssetSymbol: asset,
		},
	}
}

func TestAggregate_ExampleBatch(t *testing.T) {
	txs := []domain.Transaction{
		makeTx("W1", domain.ActionDeposit, "100", "USDC", 1000),
		makeTx("W1", domain.ActionBorrow, "50", "USDC", 2000),
		makeTx("W2", domain.ActionLiquidationCall, "10", "WETH", 1500),
	}

	table, stats := NewAggregator().Aggregate(txs)

	if table.Len() != 2 {
		t.Fatalf("expected 2 wallets, got %d", table.Len())
	}
	if stats.Transactions != 3 || stats.Wallets != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	w1 := table.Vectors["W1"]
	if w1.TotalTransactions != 2 {
		t.Errorf("W1: expected 2 transactions, got %d", w1.TotalTransactions)
	}
	if w1.ActionCount(domain.ActionDeposit) != 1 || w1.ActionCount(domain.ActionBorrow) != 1 {
		t.Errorf("W1: unexpected action counts %v", w1.ActionCounts)
	}
	if w1.LiquidationEvents != 0 {
		t.Errorf("W1: expected 0 liquidations, got %d", w1.LiquidationEvents)
	}
	if w1.TotalVolume != 150 || w1.AvgTransactionVolume != 75 {
		t.Errorf("W1: expected volume 150 / avg 75, got %f / %f", w1.TotalVolume, w1.AvgTransactionVolume)
	}
	if w1.TransactionFrequency != 500 {
		t.Errorf("W1: expected frequency 500, got %f", w1.TransactionFrequency)
	}
	if table.Value("W1", domain.ActionLiquidationCall) != 0 {
		t.Error("W1: liquidationcall column must read as 0")
	}

	w2 := table.Vectors["W2"]
	if w2.TotalTransactions != 1 {
		t.Errorf("W2: expected 1 transaction, got %d", w2.TotalTransactions)
	}
	if w2.ActionCount(domain.ActionLiquidationCall) != 1 || w2.LiquidationEvents != 1 {
		t.Errorf("W2: expected 1 liquidation, got %d / %d", w2.ActionCount(domain.ActionLiquidationCall), w2.LiquidationEvents)
	}
	if table.Value("W2", domain.ActionDeposit) != 0 {
		t.Error("W2: deposit column must read as 0")
	}

	wantKinds := []string{domain.ActionBorrow, domain.ActionDeposit, domain.ActionLiquidationCall}
	if !reflect.DeepEqual(table.ActionKinds, wantKinds) {
		t.Errorf("expected kinds %v, got %v", wantKinds, table.ActionKinds)
	}
}

func TestAggregate_SingleTransactionFrequencyIsZero(t *testing.T) {
	table, _ := NewAggregator().Aggregate([]domain.Transaction{
		makeTx("solo", domain.ActionDeposit, "1", "DAI", 1629178166),
	})

	v := table.Vectors["solo"]
	if v.TransactionFrequency != 0 {
		t.Errorf("expected frequency 0, got %f", v.TransactionFrequency)
	}
	if math.IsNaN(v.TransactionFrequency) || math.IsInf(v.TransactionFrequency, 0) {
		t.Error("frequency must be finite")
	}
}

func TestAggregate_FrequencyUsesSpanRegardlessOfOrder(t *testing.T) {
	table, _ := NewAggregator().Aggregate([]domain.Transaction{
		makeTx("w", domain.ActionRepay, "1", "DAI", 4000),
		makeTx("w", domain.ActionDeposit, "1", "DAI", 1000),
		makeTx("w", domain.ActionBorrow, "1", "DAI", 2500),
	})

	v := table.Vectors["w"]
	if v.TransactionFrequency != 1000 {
		t.Errorf("expected (4000-1000)/3 = 1000, got %f", v.TransactionFrequency)
	}
	if v.FirstSeen != 1000 || v.LastSeen != 4000 {
		t.Errorf("expected span [1000, 4000], got [%d, %d]", v.FirstSeen, v.LastSeen)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	table, stats := NewAggregator().Aggregate(nil)

	if table == nil {
		t.Fatal("expected empty table, got nil")
	}
	if table.Len() != 0 {
		t.Errorf("expected 0 wallets, got %d", table.Len())
	}
	if len(table.ActionKinds) != 0 {
		t.Errorf("expected no action kinds, got %v", table.ActionKinds)
	}
	if stats.Transactions != 0 || stats.Wallets != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestAggregate_MalformedAmountsCountAsZero(t *testing.T) {
	txs := []domain.Transaction{
		makeTx("w", domain.ActionDeposit, "100", "USDC", 1),
		makeTx("w", domain.ActionDeposit, "not-a-number", "USDC", 2),
		makeTx("w", domain.ActionDeposit, "", "USDC", 3),
	}

	table, stats := NewAggregator().Aggregate(txs)

	v := table.Vectors["w"]
	if v.TotalTransactions != 3 {
		t.Errorf("malformed rows must still be counted, got %d", v.TotalTransactions)
	}
	if v.TotalVolume != 100 {
		t.Errorf("expected volume 100, got %f", v.TotalVolume)
	}
	if math.Abs(v.AvgTransactionVolume-100.0/3.0) > 1e-9 {
		t.Errorf("expected mean over all rows, got %f", v.AvgTransactionVolume)
	}
	if stats.MalformedAmounts != 1 || stats.MissingAmounts != 1 {
		t.Errorf("expected 1 malformed and 1 missing, got %+v", stats)
	}
}

func TestAggregate_WalletKeyIsCaseSensitive(t *testing.T) {
	table, _ := NewAggregator().Aggregate([]domain.Transaction{
		makeTx("0xAbC", domain.ActionDeposit, "1", "DAI", 1),
		makeTx("0xabc", domain.ActionDeposit, "1", "DAI", 2),
	})

	if table.Len() != 2 {
		t.Errorf("expected 2 distinct wallets, got %d", table.Len())
	}
}

func TestAggregate_UniqueAssets(t *testing.T) {
	table, _ := NewAggregator().Aggregate([]domain.Transaction{
		makeTx("w", domain.ActionDeposit, "1", "USDC", 1),
		makeTx("w", domain.ActionDeposit, "1", "USDC", 2),
		makeTx("w", domain.ActionBorrow, "1", "WMATIC", 3),
		makeTx("w", domain.ActionRepay, "1", "", 4),
	})

	if got := table.Vectors["w"].UniqueAssets; got != 2 {
		t.Errorf("expected 2 unique assets, got %d", got)
	}
}

func TestAggregate_UnknownActionGetsColumn(t *testing.T) {
	table, _ := NewAggregator().Aggregate([]domain.Transaction{
		makeTx("a", "flashloan", "5", "DAI", 1),
		makeTx("b", domain.ActionDeposit, "5", "DAI", 2),
	})

	if !table.HasColumn("flashloan") {
		t.Fatal("expected flashloan column")
	}
	if table.Value("a", "flashloan") != 1 {
		t.Errorf("expected a.flashloan = 1, got %f", table.Value("a", "flashloan"))
	}
	if table.Value("b", "flashloan") != 0 {
		t.Errorf("expected b.flashloan = 0, got %f", table.Value("b", "flashloan"))
	}
	if table.Vectors["a"].TotalTransactions != 1 {
		t.Error("unknown action must count in totals")
	}
	if table.HasColumn(domain.ActionRepay) {
		t.Error("repay never occurred and must not be a column")
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	txs := []domain.Transaction{
		makeTx("w1", domain.ActionDeposit, "0.1", "USDC", 10),
		makeTx("w2", domain.ActionBorrow, "0.2", "DAI", 20),
		makeTx("w1", domain.ActionRepay, "0.3", "USDC", 30),
		makeTx("w3", domain.ActionLiquidationCall, "0.7", "WETH", 40),
	}

	first, _ := NewAggregator().Aggregate(txs)
	for run := 0; run < 5; run++ {
		again, _ := NewAggregator().Aggregate(txs)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: aggregation is not deterministic", run)
		}
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	txs := []domain.Transaction{
		makeTx("w1", domain.ActionDeposit, "bad", "USDC", 10),
	}
	before := txs[0]

	NewAggregator().Aggregate(txs)

	if !reflect.DeepEqual(before, txs[0]) {
		t.Error("input transaction was modified")
	}
}
