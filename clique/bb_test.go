package clique_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sos1/clique"
)

// adjMatrix turns an edge list into a symmetric predicate over n nodes.
func adjMatrix(n int, edges [][2]int) func(i, j int) bool {
	m := make([][]bool, n)
	for i := range m {
		m[i] = make([]bool, n)
	}
	for _, e := range edges {
		m[e[0]][e[1]] = true
		m[e[1]][e[0]] = true
	}

	return func(i, j int) bool { return m[i][j] }
}

// triangle 0-1-2 plus pendant 3 attached to 2.
func mkTrianglePendant() (int, func(i, j int) bool, []int) {
	return 4, adjMatrix(4, [][2]int{{0, 1}, {0, 2}, {1, 2}, {2, 3}}), []int{3, 4, 5, 10}
}

func TestMaxClique_AcceptAll(t *testing.T) {
	n, adj, w := mkTrianglePendant()
	bb := clique.NewBranchAndBound(clique.WithMaxTreeNodes(0))

	res, err := bb.MaxClique(n, adj, w, nil)
	require.NoError(t, err)
	require.Equal(t, clique.StatusOptimal, res.Status)
	require.Equal(t, []int{2, 3}, res.Clique)
	require.Equal(t, 15, res.Weight)
}

func TestMaxClique_RejectAllReportsEveryMaximalClique(t *testing.T) {
	n, adj, w := mkTrianglePendant()
	bb := clique.NewBranchAndBound()

	var seen [][]int
	res, err := bb.MaxClique(n, adj, w, func(c []int, weight int) (bool, bool) {
		seen = append(seen, append([]int(nil), c...))

		return false, false
	})
	require.NoError(t, err)
	require.Nil(t, res.Clique)
	require.Equal(t, 2, res.Reported)
	require.Len(t, seen, 2)
	require.ElementsMatch(t, []int{3, 2}, seen[0])
	require.ElementsMatch(t, []int{0, 1, 2}, seen[1])
}

func TestMaxClique_Stop(t *testing.T) {
	n, adj, w := mkTrianglePendant()
	res, err := clique.NewBranchAndBound().MaxClique(n, adj, w, func([]int, int) (bool, bool) {
		return false, true
	})
	require.NoError(t, err)
	require.Equal(t, clique.StatusStopped, res.Status)
	require.Equal(t, 1, res.Reported)
}

func TestMaxClique_NodeLimit(t *testing.T) {
	n, adj, w := mkTrianglePendant()
	res, err := clique.NewBranchAndBound(clique.WithMaxTreeNodes(1)).MaxClique(n, adj, w, nil)
	require.NoError(t, err)
	require.Equal(t, clique.StatusNodeLimit, res.Status)
	require.Equal(t, 2, res.Nodes)
	require.Zero(t, res.Reported)
}

func TestMaxClique_MinWeight(t *testing.T) {
	n, adj, w := mkTrianglePendant()
	bb := clique.NewBranchAndBound(clique.WithMinWeight(13))
	require.Equal(t, 13, bb.Options().MinWeight)

	res, err := bb.MaxClique(n, adj, w, func([]int, int) (bool, bool) { return false, false })
	require.NoError(t, err)
	require.Equal(t, 1, res.Reported)
}

func TestMaxClique_ZeroWeightIgnored(t *testing.T) {
	// node 2 is adjacent to everything but weighs nothing
	adj := adjMatrix(3, [][2]int{{0, 2}, {1, 2}})
	res, err := clique.NewBranchAndBound().MaxClique(3, adj, []int{4, 5, 0}, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1}, res.Clique)
	require.Equal(t, 5, res.Weight)
}

func TestMaxClique_Errors(t *testing.T) {
	bb := clique.NewBranchAndBound()
	_, err := bb.MaxClique(2, nil, []int{1, 1}, nil)
	require.ErrorIs(t, err, clique.ErrAdjacencyNil)
	_, err = bb.MaxClique(3, adjMatrix(3, nil), []int{1, 1}, nil)
	require.ErrorIs(t, err, clique.ErrWeightsMismatch)
	_, err = bb.MaxClique(2, adjMatrix(2, nil), []int{1, -1}, nil)
	require.ErrorIs(t, err, clique.ErrNegativeWeight)

	res, err := bb.MaxClique(0, adjMatrix(0, nil), nil, nil)
	require.NoError(t, err)
	require.Nil(t, res.Clique)
}

// bruteMax enumerates all subsets.
func bruteMax(n int, adj func(i, j int) bool, w []int) int {
	best := 0
	for mask := 1; mask < 1<<n; mask++ {
		ok, sum := true, 0
		for i := 0; i < n && ok; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			sum += w[i]
			for j := i + 1; j < n; j++ {
				if mask&(1<<j) != 0 && !adj(i, j) {
					ok = false
					break
				}
			}
		}
		if ok && sum > best {
			best = sum
		}
	}

	return best
}

func TestMaxClique_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bb := clique.NewBranchAndBound(clique.WithMaxTreeNodes(0))
	for trial := 0; trial < 25; trial++ {
		n := 4 + rng.Intn(8)
		var edges [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Float64() < 0.5 {
					edges = append(edges, [2]int{i, j})
				}
			}
		}
		w := make([]int, n)
		for i := range w {
			w[i] = rng.Intn(20)
		}
		adj := adjMatrix(n, edges)

		res, err := bb.MaxClique(n, adj, w, nil)
		require.NoError(t, err)
		require.Equalf(t, bruteMax(n, adj, w), res.Weight, "trial %d", trial)
	}
}
