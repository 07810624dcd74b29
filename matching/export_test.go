package matching

var NthChildIndex = nthChildIndex

var MatchesComplexSelectorInternal = matchesComplexSelectorInternal
