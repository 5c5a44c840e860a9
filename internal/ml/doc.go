// Package ml holds the genre classifiers and the model-selection helpers the
// trainer uses: a polynomial expansion, a standard scaler, k-nearest
// neighbours, multinomial logistic regression and an RBF-kernel SVM, chained
// by Pipeline and persisted as a versioned JSON artifact.
//
// Linear algebra, statistics and optimisation come from gonum. Estimators
// only define their objectives and prediction rules.
package ml
