package chain_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/pow"
	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/ardanlabs/ledger/foundation/ledger/store/memory"
	"go.uber.org/mock/gomock"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// testBits keeps mining instant so the tests spend their time on the
// chain semantics, not the proof of work.
const testBits = 8

func Test_UseCase(t *testing.T) {
	t.Log("Given the need to run a chain through its full life cycle.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen creating a chain and moving value between accounts.", testID)
		{
			st := memory.New()

			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open a chain over an empty store: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to open a chain over an empty store.", success, testID)

			if _, err := c.Balance("alice"); !errors.Is(err, chain.ErrUninitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrUninitialized before the chain is created: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrUninitialized before the chain is created.", success, testID)

			genBlock, err := c.Create("alice")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to create the chain.", success, testID)

			if genBlock.Header.Number != 0 || genBlock.Header.PrevBlockHash != "" {
				t.Fatalf("\t%s\tTest %d:\tShould get a genesis block numbered zero with no parent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get a genesis block numbered zero with no parent.", success, testID)

			balance, err := c.Balance("alice")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to query the genesis balance: %v", failed, testID, err)
			}
			if balance != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould see the default reward of 50, got %d.", failed, testID, balance)
			}
			t.Logf("\t%s\tTest %d:\tShould see the default reward of 50.", success, testID)

			if _, err := c.Send("alice", "bob", 20); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to send funds.", success, testID)

			balance, _ = c.Balance("alice")
			if balance != 30 {
				t.Fatalf("\t%s\tTest %d:\tShould see the sender debited to 30, got %d.", failed, testID, balance)
			}
			balance, _ = c.Balance("bob")
			if balance != 20 {
				t.Fatalf("\t%s\tTest %d:\tShould see the recipient credited to 20, got %d.", failed, testID, balance)
			}
			t.Logf("\t%s\tTest %d:\tShould see both balances updated.", success, testID)

			if _, err := c.Send("bob", "alice", 25); !errors.Is(err, chain.ErrInsufficientFunds) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrInsufficientFunds for an overdraft: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrInsufficientFunds for an overdraft.", success, testID)

			height, err := c.Height()
			if err != nil || height != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have a height of 2, got %d: %v", failed, testID, height, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a height of 2.", success, testID)

			if err := c.Destroy(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to destroy the chain: %v", failed, testID, err)
			}
			if _, err := c.Balance("alice"); !errors.Is(err, chain.ErrUninitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrUninitialized after a destroy: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrUninitialized after a destroy.", success, testID)

			if _, err := c.Create("carol"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create again after a destroy: %v", failed, testID, err)
			}
			balance, _ = c.Balance("carol")
			if balance != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould see the new genesis account funded, got %d.", failed, testID, balance)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to create again after a destroy.", success, testID)
		}
	}
}

func Test_Reopen(t *testing.T) {
	t.Log("Given the need to reload a chain from its store.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen opening a second chain over the same store.", testID)
		{
			st := memory.New()

			c1, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits, Reward: 100})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the first chain: %v", failed, testID, err)
			}
			if _, err := c1.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}
			if _, err := c1.Send("alice", "bob", 35); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}
			tip1, err := c1.LatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the tip: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to build the first chain.", success, testID)

			// Different configured settings on reopen. The recorded
			// genesis settings must win.
			c2, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits + 8, Reward: 7})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reopen and verify the chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to reopen and verify the chain.", success, testID)

			tip2, err := c2.LatestBlock()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the reloaded tip: %v", failed, testID, err)
			}
			if tip2.Hash != tip1.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould reload the same tip, got %s exp %s.", failed, testID, tip2.Hash, tip1.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould reload the same tip.", success, testID)

			gen, err := c2.Genesis()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the genesis settings: %v", failed, testID, err)
			}
			if gen.DifficultyBits != testBits || gen.Reward != 100 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the recorded settings, got bits %d reward %d.", failed, testID, gen.DifficultyBits, gen.Reward)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the recorded settings over the configured ones.", success, testID)

			balance, err := c2.Balance("bob")
			if err != nil || balance != 35 {
				t.Fatalf("\t%s\tTest %d:\tShould reload the balances, got %d: %v", failed, testID, balance, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reload the balances.", success, testID)
		}
	}
}

func Test_CreateValidation(t *testing.T) {
	t.Log("Given the need to guard chain creation.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen creating over an existing chain.", testID)
		{
			st := memory.New()
			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}

			before := snapshot(t, st)

			if _, err := c.Create("bob"); !errors.Is(err, chain.ErrAlreadyExists) {
				t.Fatalf("\t%s\tTest %d:\tShould get ErrAlreadyExists on a second create: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get ErrAlreadyExists on a second create.", success, testID)

			after := snapshot(t, st)
			if !reflect.DeepEqual(before, after) {
				t.Fatalf("\t%s\tTest %d:\tShould leave the store byte for byte untouched.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the store byte for byte untouched.", success, testID)
		}

		testID = 1
		t.Logf("\tTest %d:\tWhen creating over leftover data with no tip.", testID)
		{
			st := memory.New()
			if err := st.Put([]byte("junk"), []byte("leftover")); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to seed the store: %v", failed, testID, err)
			}

			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould treat a tipless store as uninitialized: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create over the remnants: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to create over the remnants.", success, testID)

			if _, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits}); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould verify cleanly after the remnants were cleared: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould verify cleanly after the remnants were cleared.", success, testID)
		}
	}
}

func Test_SendValidation(t *testing.T) {
	type table struct {
		name   string
		fromID database.AccountID
		toID   database.AccountID
		value  uint64
		err    error
	}

	tt := []table{
		{"missing sender", "", "bob", 10, chain.ErrInvalidTransaction},
		{"missing recipient", "alice", "", 10, chain.ErrInvalidTransaction},
		{"zero value", "alice", "bob", 0, chain.ErrInvalidTransaction},
		{"overdraft", "alice", "bob", 51, chain.ErrInsufficientFunds},
	}

	t.Log("Given the need to validate transactions before they are mined.")
	{
		for testID, tst := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen sending %s.", testID, tst.name)
				{
					var events []string
					ev := func(v string, args ...any) {
						events = append(events, fmt.Sprintf(v, args...))
					}

					st := memory.New()
					c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits, EvHandler: ev})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
					}
					if _, err := c.Create("alice"); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
					}

					before := snapshot(t, st)
					evCount := len(events)

					if _, err := c.Send(tst.fromID, tst.toID, tst.value); !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould get the expected error: got %v, exp %v.", failed, testID, err, tst.err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected error.", success, testID)

					if !reflect.DeepEqual(before, snapshot(t, st)) {
						t.Fatalf("\t%s\tTest %d:\tShould append nothing to the store.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould append nothing to the store.", success, testID)

					if len(events) != evCount {
						t.Fatalf("\t%s\tTest %d:\tShould not start mining for a rejected send.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not start mining for a rejected send.", success, testID)
				}
			}
			t.Run(tst.name, tf)
		}

		testID := len(tt)
		t.Logf("\tTest %d:\tWhen sending funds back to the sender.", testID)
		{
			st := memory.New()
			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}

			if _, err := c.Send("alice", "alice", 10); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould accept a self transfer: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould accept a self transfer.", success, testID)

			balance, err := c.Balance("alice")
			if err != nil || balance != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the balance unchanged, got %d: %v", failed, testID, balance, err)
			}
			height, _ := c.Height()
			if height != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould still record the block, height %d.", failed, testID, height)
			}
			t.Logf("\t%s\tTest %d:\tShould leave the balance unchanged but record the block.", success, testID)
		}
	}
}

func Test_Corruption(t *testing.T) {
	type table struct {
		name    string
		corrupt func(t *testing.T, st store.Store)
		reason  string
	}

	tt := []table{
		{
			name: "tampered transaction",
			corrupt: func(t *testing.T, st store.Store) {
				hash := tipHash(t, st)
				blockData := readStored(t, st, hash)
				blockData.Trans[0].Value++
				writeStored(t, st, hash, blockData)
			},
			reason: "invalid proof of work",
		},
		{
			name: "block stored under the wrong key",
			corrupt: func(t *testing.T, st store.Store) {
				hash := tipHash(t, st)
				blockData := readStored(t, st, hash)
				wrongKey := strings.Repeat("0", 64)
				writeStored(t, st, wrongKey, blockData)
				if err := st.Put([]byte("l"), []byte(wrongKey)); err != nil {
					t.Fatal(err)
				}
			},
			reason: "stored hash does not match its key",
		},
		{
			name: "orphaned block",
			corrupt: func(t *testing.T, st store.Store) {
				hash := tipHash(t, st)
				blockData := readStored(t, st, hash)
				orphan := strings.Repeat("f", 64)
				writeStored(t, st, orphan, blockData)
			},
			reason: "block not reachable from tip",
		},
		{
			name: "dangling tip",
			corrupt: func(t *testing.T, st store.Store) {
				if err := st.Put([]byte("l"), []byte(strings.Repeat("a", 64))); err != nil {
					t.Fatal(err)
				}
			},
			reason: "linked block missing",
		},
		{
			name: "unreadable genesis record",
			corrupt: func(t *testing.T, st store.Store) {
				if err := st.Put([]byte("genesis"), []byte("not json")); err != nil {
					t.Fatal(err)
				}
			},
			reason: "genesis record unreadable",
		},
		{
			name: "block number out of sequence",
			corrupt: func(t *testing.T, st store.Store) {
				tip := readStored(t, st, tipHash(t, st))

				tx, err := database.NewTx("alice", "bob", 1)
				if err != nil {
					t.Fatal(err)
				}
				block, err := database.NewBlock(tip.Hash, tip.Header.Number+5, []database.Tx{tx})
				if err != nil {
					t.Fatal(err)
				}

				// Mine the crafted block for real so only the numbering
				// check can reject it.
				engine, err := pow.New(testBits, nil)
				if err != nil {
					t.Fatal(err)
				}
				payload, err := block.Payload()
				if err != nil {
					t.Fatal(err)
				}
				nonce, hash := engine.Mine(payload)
				block.Header.Nonce = nonce

				writeStored(t, st, hash, database.NewBlockData(block, hash))
				if err := st.Put([]byte("l"), []byte(hash)); err != nil {
					t.Fatal(err)
				}
			},
			reason: "block number out of sequence",
		},
	}

	t.Log("Given the need to detect a damaged store on open.")
	{
		for testID, tst := range tt {
			tf := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen opening a chain with a %s.", testID, tst.name)
				{
					st := memory.New()
					c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
					}
					if _, err := c.Create("alice"); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
					}
					if _, err := c.Send("alice", "bob", 20); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
					}

					tst.corrupt(t, st)

					reopened, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
					var cce *chain.CorruptChainError
					if !errors.As(err, &cce) {
						t.Fatalf("\t%s\tTest %d:\tShould get a CorruptChainError: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get a CorruptChainError.", success, testID)

					if !strings.Contains(cce.Reason, tst.reason) {
						t.Fatalf("\t%s\tTest %d:\tShould report the reason %q, got %q.", failed, testID, tst.reason, cce.Reason)
					}
					t.Logf("\t%s\tTest %d:\tShould report the reason %q.", success, testID, tst.reason)

					if reopened == nil {
						t.Fatalf("\t%s\tTest %d:\tShould still get a chain back for recovery.", failed, testID)
					}
					if err := reopened.Destroy(); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to destroy the corrupt chain: %v", failed, testID, err)
					}
					if _, err := reopened.Create("alice"); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to recreate after the destroy: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to destroy and recreate.", success, testID)
				}
			}
			t.Run(tst.name, tf)
		}
	}
}

func Test_CorruptChainHalts(t *testing.T) {
	t.Log("Given the need to halt every operation on a corrupt chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a block fails verification on open.", testID)
		{
			st := memory.New()
			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}
			sendBlock, err := c.Send("alice", "bob", 20)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}

			blockData := readStored(t, st, sendBlock.Hash)
			blockData.Trans[0].Value = 40
			writeStored(t, st, sendBlock.Hash, blockData)

			reopened, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			var cce *chain.CorruptChainError
			if !errors.As(err, &cce) {
				t.Fatalf("\t%s\tTest %d:\tShould get a CorruptChainError: %v", failed, testID, err)
			}
			if cce.Number != 1 || cce.Hash != sendBlock.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould identify block 1 hash %s, got block %d hash %s.", failed, testID, sendBlock.Hash, cce.Number, cce.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould identify the corrupt block.", success, testID)

			if _, err := reopened.Balance("alice"); !errors.As(err, &cce) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse balance queries: %v", failed, testID, err)
			}
			if _, err := reopened.Send("alice", "bob", 1); !errors.As(err, &cce) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse sends: %v", failed, testID, err)
			}
			if _, err := reopened.Create("alice"); !errors.As(err, &cce) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse creates: %v", failed, testID, err)
			}
			if _, err := reopened.ForEach(); !errors.As(err, &cce) {
				t.Fatalf("\t%s\tTest %d:\tShould refuse traversal: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse every operation but destroy.", success, testID)

			if err := reopened.Destroy(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould allow destroy on a corrupt chain: %v", failed, testID, err)
			}
			if _, err := reopened.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to recreate after the destroy: %v", failed, testID, err)
			}
			balance, err := reopened.Balance("alice")
			if err != nil || balance != 50 {
				t.Fatalf("\t%s\tTest %d:\tShould run normally again, balance %d: %v", failed, testID, balance, err)
			}
			t.Logf("\t%s\tTest %d:\tShould run normally again after destroy and recreate.", success, testID)
		}
	}
}

func Test_BalanceViews(t *testing.T) {
	t.Log("Given the need to compute the same balances by walk and by scan.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen moving value between several accounts.", testID)
		{
			st := memory.New()
			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}

			sends := []struct {
				from  database.AccountID
				to    database.AccountID
				value uint64
			}{
				{"alice", "bob", 20},
				{"alice", "carol", 10},
				{"bob", "carol", 5},
				{"carol", "alice", 1},
			}
			for _, s := range sends {
				if _, err := c.Send(s.from, s.to, s.value); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to send %s -> %s: %v", failed, testID, s.from, s.to, err)
				}
			}

			balances, err := c.Balances()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to scan all balances: %v", failed, testID, err)
			}

			exp := map[database.AccountID]uint64{"alice": 21, "bob": 15, "carol": 14}
			if !reflect.DeepEqual(balances, exp) {
				t.Fatalf("\t%s\tTest %d:\tShould compute the expected balances, got %v.", failed, testID, balances)
			}
			t.Logf("\t%s\tTest %d:\tShould compute the expected balances.", success, testID)

			for acct, want := range balances {
				got, err := c.Balance(acct)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to walk the balance of %s: %v", failed, testID, acct, err)
				}
				if got != want {
					t.Fatalf("\t%s\tTest %d:\tShould agree between walk and scan for %s: got %d, exp %d.", failed, testID, acct, got, want)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould agree between walk and scan for every account.", success, testID)

			gen, err := c.Genesis()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read the genesis settings: %v", failed, testID, err)
			}
			var total uint64
			for _, v := range balances {
				total += v
			}
			if total != gen.Reward {
				t.Fatalf("\t%s\tTest %d:\tShould conserve the total supply, got %d exp %d.", failed, testID, total, gen.Reward)
			}
			t.Logf("\t%s\tTest %d:\tShould conserve the total supply.", success, testID)
		}
	}
}

func Test_Iterator(t *testing.T) {
	t.Log("Given the need to traverse the chain from genesis to tip.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen iterating a three block chain.", testID)
		{
			st := memory.New()
			c, err := chain.Open(chain.Config{Store: st, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}
			if _, err := c.Create("alice"); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create the chain: %v", failed, testID, err)
			}
			if _, err := c.Send("alice", "bob", 20); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}
			if _, err := c.Send("bob", "carol", 5); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}

			it, err := c.ForEach()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to start an iteration: %v", failed, testID, err)
			}

			var seen []uint64
			for !it.Done() {
				blockData, err := it.Next()
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to read the next block: %v", failed, testID, err)
				}
				seen = append(seen, blockData.Header.Number)

				if blockData.Header.Number == 0 {
					if blockData.Header.PrevBlockHash != "" || !blockData.Trans[0].IsReward() {
						t.Fatalf("\t%s\tTest %d:\tShould start with the genesis reward block.", failed, testID)
					}
				}
			}
			if !reflect.DeepEqual(seen, []uint64{0, 1, 2}) {
				t.Fatalf("\t%s\tTest %d:\tShould visit blocks in order, got %v.", failed, testID, seen)
			}
			t.Logf("\t%s\tTest %d:\tShould visit blocks genesis first in order.", success, testID)

			if _, err := it.Next(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to read past the end.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to read past the end.", success, testID)

			it2, err := c.ForEach()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to restart the iteration: %v", failed, testID, err)
			}
			first, err := it2.Next()
			if err != nil || first.Header.Number != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould restart at genesis, got %d: %v", failed, testID, first.Header.Number, err)
			}
			t.Logf("\t%s\tTest %d:\tShould restart at genesis.", success, testID)

			// Blocks appended after the iterator was constructed stay
			// out of its walk.
			if _, err := c.Send("alice", "bob", 1); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send funds: %v", failed, testID, err)
			}
			count := 1
			for !it2.Done() {
				if _, err := it2.Next(); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to finish the iteration: %v", failed, testID, err)
				}
				count++
			}
			if count != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould keep the snapshot length of 3, got %d.", failed, testID, count)
			}
			t.Logf("\t%s\tTest %d:\tShould iterate over a snapshot of the chain.", success, testID)
		}
	}
}

func Test_StoreFailure(t *testing.T) {
	t.Log("Given the need to surface store failures.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the store fails while writing the genesis record.", testID)
		{
			ctrl := gomock.NewController(t)
			db := store.NewMockStore(ctrl)

			db.EXPECT().Get([]byte("l")).Return(nil, store.ErrNotFound)

			c, err := chain.Open(chain.Config{Store: db, DifficultyBits: testBits})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the chain: %v", failed, testID, err)
			}

			errPut := errors.New("disk full")
			db.EXPECT().DeleteAll().Return(nil)
			db.EXPECT().Put([]byte("genesis"), gomock.Any()).Return(errPut)

			if _, err := c.Create("alice"); !errors.Is(err, errPut) {
				t.Fatalf("\t%s\tTest %d:\tShould surface the store error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould surface the store error.", success, testID)

			if _, err := c.Send("alice", "bob", 1); !errors.Is(err, chain.ErrUninitialized) {
				t.Fatalf("\t%s\tTest %d:\tShould stay uninitialized after the failed create: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould stay uninitialized after the failed create.", success, testID)
		}
	}
}

// =============================================================================

func snapshot(t *testing.T, st store.Store) map[string][]byte {
	t.Helper()

	entries := make(map[string][]byte)
	err := st.ForEach(func(key []byte, value []byte) error {
		entries[string(key)] = append([]byte(nil), value...)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot store: %v", err)
	}

	return entries
}

func tipHash(t *testing.T, st store.Store) string {
	t.Helper()

	data, err := st.Get([]byte("l"))
	if err != nil {
		t.Fatalf("read tip: %v", err)
	}

	return string(data)
}

func readStored(t *testing.T, st store.Store, hash string) database.BlockData {
	t.Helper()

	data, err := st.Get([]byte(hash))
	if err != nil {
		t.Fatalf("read block %s: %v", hash, err)
	}
	blockData, err := database.Deserialize(data)
	if err != nil {
		t.Fatalf("decode block %s: %v", hash, err)
	}

	return blockData
}

func writeStored(t *testing.T, st store.Store, key string, blockData database.BlockData) {
	t.Helper()

	data, err := database.Serialize(blockData)
	if err != nil {
		t.Fatalf("encode block: %v", err)
	}
	if err := st.Put([]byte(key), data); err != nil {
		t.Fatalf("write block %s: %v", key, err)
	}
}
